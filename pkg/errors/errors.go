package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthenticated  = errors.New("no user logged in")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidFile      = errors.New("invalid file")
	ErrUploadFailed     = errors.New("upload failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error codes carried by *Error.
const (
	CodeNotFound         = "not_found"
	CodeInvalidInput     = "invalid_input"
	CodeUnauthenticated  = "unauthenticated"
	CodeUsernameTaken    = "username_taken"
	CodeInvalidFile      = "invalid_file"
	CodeUploadFailed     = "upload_failed"
	CodeStoreUnavailable = "store_unavailable"
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthenticated returns true if the operation needed a session
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsUsernameTaken returns true if another profile owns the username
func IsUsernameTaken(err error) bool {
	return errors.Is(err, ErrUsernameTaken)
}

// IsInvalidFile returns true if an upload was rejected before storage
func IsInvalidFile(err error) bool {
	return errors.Is(err, ErrInvalidFile)
}

// IsUploadFailed returns true if the object storage write failed
func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

// IsStoreUnavailable returns true if the backing store failed
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// Unauthenticated builds the error returned when no session is active
func Unauthenticated() error {
	return WrapWithCode(ErrUnauthenticated, CodeUnauthenticated, "no user logged in")
}

// UsernameTaken builds the error returned for a username owned by someone else
func UsernameTaken(username string) error {
	return WrapWithCode(ErrUsernameTaken, CodeUsernameTaken,
		fmt.Sprintf("username %q already taken, please choose a different username", username))
}

// InvalidInput wraps a field validation failure
func InvalidInput(message string) error {
	return WrapWithCode(ErrInvalidInput, CodeInvalidInput, message)
}

// InvalidFile wraps an upload validation failure
func InvalidFile(message string) error {
	return WrapWithCode(ErrInvalidFile, CodeInvalidFile, message)
}

// UploadFailed wraps a storage-layer failure
func UploadFailed(err error) error {
	return WrapWithCode(errors.Join(ErrUploadFailed, err), CodeUploadFailed, "avatar upload failed")
}

// StoreUnavailable wraps a fetch or write failure of the backing store
func StoreUnavailable(err error, message string) error {
	return WrapWithCode(errors.Join(ErrStoreUnavailable, err), CodeStoreUnavailable, message)
}
