package story

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
)

var ErrNotFound = errors.New("story not found")
var ErrCannotCreate = errors.New("error create story")

//go:generate go run go.uber.org/mock/mockgen -source=story.go -destination=mocks/mock.go

type Repository interface {
	Create(ctx context.Context, item domain.StoryItem) error
	ListActive(ctx context.Context, since time.Time) ([]domain.StoryItem, error)
	GetByAuthor(ctx context.Context, authorID uuid.UUID, since time.Time) ([]domain.StoryItem, error)
	CleanupOldRecords(ctx context.Context, cutoff time.Time) ([]string, error)
}
