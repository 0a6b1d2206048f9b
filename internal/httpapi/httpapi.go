// Package httpapi exposes the session store and the story feed to local UI surfaces.
package httpapi

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/session"
)

//go:generate go run go.uber.org/mock/mockgen -source=httpapi.go -destination=mocks/mock.go
type SessionStore interface {
	State() session.State
	Watch(fn func(session.State)) func()

	SignUp(ctx context.Context, email, password, fullName, username string) error
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error

	UpdateProfile(ctx context.Context, patch domain.ProfilePatch) error
	RefreshProfile(ctx context.Context) error
	UploadAvatar(ctx context.Context, data []byte, fileName, contentType string) (string, error)
}

type StoryFeed interface {
	Active(ctx context.Context) ([]domain.StoryGroup, error)
	ByAuthor(ctx context.Context, authorID uuid.UUID) (*domain.StoryGroup, error)
	Post(ctx context.Context, data []byte, fileName, contentType string) (*domain.StoryItem, error)
}
