package httpapi

import (
	"net/http"

	"github.com/orgball2608/vibestream/internal/auth"
	"github.com/orgball2608/vibestream/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

var codeStatus = map[string]int{
	errors.CodeUnauthenticated:  http.StatusUnauthorized,
	errors.CodeUsernameTaken:    http.StatusConflict,
	errors.CodeInvalidInput:     http.StatusBadRequest,
	errors.CodeInvalidFile:      http.StatusBadRequest,
	errors.CodeUploadFailed:     http.StatusBadGateway,
	errors.CodeStoreUnavailable: http.StatusServiceUnavailable,
	errors.CodeNotFound:         http.StatusNotFound,
}

var authErrors = []struct {
	err    error
	status int
	code   string
}{
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{auth.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{auth.ErrTooManyAttempts, http.StatusTooManyRequests, "too_many_attempts"},
	{auth.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
	{auth.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
	{auth.ErrNoSession, http.StatusUnauthorized, errors.CodeUnauthenticated},
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if code := errors.GetCode(err); code != "" {
		status, ok := codeStatus[code]
		if !ok {
			status = http.StatusInternalServerError
		}
		s.writeStatus(w, status, code, errors.GetMessage(err))
		return
	}

	for _, ae := range authErrors {
		if errors.Is(err, ae.err) {
			s.writeStatus(w, ae.status, ae.code, ae.err.Error())
			return
		}
	}

	s.logger.Error("Unhandled error", "error", err)
	s.writeStatus(w, http.StatusInternalServerError, "internal", "internal error")
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}
