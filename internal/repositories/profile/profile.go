package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrUsernameTaken = errors.New("profile username already taken")
	ErrAlreadyExists = errors.New("profile already exists")
)

//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=mocks/mock.go
type Repository interface {
	// GetByUserID returns the profile owned by userID or ErrNotFound
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// ExistsByUserID checks the store directly, ignoring any cached copy
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)

	// UsernameTaken reports whether a profile other than excludeUserID owns username
	UsernameTaken(ctx context.Context, username string, excludeUserID uuid.UUID) (bool, error)

	// Create inserts the profile and returns the stored row
	Create(ctx context.Context, profile domain.Profile) (*domain.Profile, error)

	// Update applies patch to the profile of userID and stamps updatedAt
	Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch, updatedAt time.Time) error
}
