// Package auth defines the identity provider the session store mirrors.
package auth

import (
	"context"
	"errors"

	"github.com/orgball2608/vibestream/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTooManyAttempts    = errors.New("too many sign-in attempts, try again later")
	ErrNoSession          = errors.New("no active session")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
)

type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Event is one auth state change. Session is nil after sign-out.
type Event struct {
	Kind    EventKind
	Session *domain.Session
}

//go:generate go run go.uber.org/mock/mockgen -source=auth.go -destination=mocks/mock.go
type Provider interface {
	// GetSession returns the current session, or nil when signed out
	GetSession(ctx context.Context) (*domain.Session, error)

	// Subscribe delivers every auth state change in order until unsubscribed
	Subscribe() *Subscription

	SignUp(ctx context.Context, email, password string, meta domain.UserMetadata) (*domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	RefreshSession(ctx context.Context) (*domain.Session, error)
}
