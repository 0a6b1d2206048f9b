package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserMetadata is the free-form data attached to an account at sign-up.
type UserMetadata struct {
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// Session mirrors the identity provider's live authentication state.
type Session struct {
	UserID      uuid.UUID    `json:"user_id"`
	Email       string       `json:"email"`
	AccessToken string       `json:"-"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Metadata    UserMetadata `json:"metadata"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != uuid.Nil
}

// Account is the credential record owned by the identity provider.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Metadata     UserMetadata
	CreatedAt    time.Time
}
