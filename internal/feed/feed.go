// Package feed serves the story carousel and keeps stories ephemeral.
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/notify"
	"github.com/orgball2608/vibestream/internal/objectstore"
	"github.com/orgball2608/vibestream/internal/repositories/story"
	"github.com/orgball2608/vibestream/internal/session"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/errors"
	"github.com/orgball2608/vibestream/pkg/logger"
	"go.uber.org/fx"
)

// Identity reports who is signed in.
type Identity interface {
	State() session.State
}

type Opts struct {
	fx.In

	LC       fx.Lifecycle
	Config   *config.Config
	Logger   logger.Logger
	Clock    clockwork.Clock
	Stories  story.Repository
	Objects  objectstore.Storage
	Notifier notify.Client
	Session  *session.Store
}

type Service struct {
	stories   story.Repository
	objects   objectstore.Storage
	notifier  notify.Client
	identity  Identity
	logger    logger.Logger
	clock     clockwork.Clock
	retention time.Duration
	bucket    string
	maxSize   int64
}

func New(opts Opts) (*Service, error) {
	s := NewService(opts.Stories, opts.Objects, opts.Notifier, opts.Session, opts.Logger, opts.Clock, opts.Config)

	scheduler, err := gocron.NewScheduler(gocron.WithClock(opts.Clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.ScheduleCleanup(scheduler)
		},
		OnStop: func(ctx context.Context) error {
			s.logger.Info("Stopping story cleanup scheduler")
			if err := scheduler.Shutdown(); err != nil {
				s.logger.Error("Failed to shut down cleanup scheduler", "error", err)
			}
			return nil
		},
	})

	return s, nil
}

func NewService(
	stories story.Repository,
	objects objectstore.Storage,
	notifier notify.Client,
	identity Identity,
	log logger.Logger,
	clock clockwork.Clock,
	cfg *config.Config,
) *Service {
	return &Service{
		stories:   stories,
		objects:   objects,
		notifier:  notifier,
		identity:  identity,
		logger:    log.WithComponent("Feed"),
		clock:     clock,
		retention: cfg.Story.Retention,
		bucket:    cfg.Storage.StoryBucket,
		maxSize:   cfg.Storage.MaxStorySize,
	}
}

// Active returns the carousel: stories younger than the retention window, one group per author.
func (s *Service) Active(ctx context.Context) ([]domain.StoryGroup, error) {
	items, err := s.stories.ListActive(ctx, s.clock.Now().Add(-s.retention))
	if err != nil {
		return nil, errors.StoreUnavailable(err, "failed to list stories")
	}
	return domain.GroupByAuthor(items), nil
}

// ByAuthor returns one author's active stories, nil when they have none.
func (s *Service) ByAuthor(ctx context.Context, authorID uuid.UUID) (*domain.StoryGroup, error) {
	items, err := s.stories.GetByAuthor(ctx, authorID, s.clock.Now().Add(-s.retention))
	if errors.Is(err, story.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StoreUnavailable(err, "failed to list author stories")
	}
	groups := domain.GroupByAuthor(items)
	if len(groups) == 0 {
		return nil, nil
	}
	return &groups[0], nil
}

// Post uploads media for the signed-in user and publishes it as a story.
func (s *Service) Post(ctx context.Context, data []byte, fileName, contentType string) (*domain.StoryItem, error) {
	state := s.identity.State()
	if !state.Session.IsAuthenticated() {
		return nil, errors.Unauthenticated()
	}
	if state.Profile == nil || state.Profile.Username == "" {
		return nil, errors.InvalidInput("choose a username before posting stories")
	}

	if len(data) == 0 || int64(len(data)) > s.maxSize {
		return nil, errors.InvalidFile(fmt.Sprintf("story media must be between 1 byte and %d MiB", s.maxSize>>20))
	}
	mediaType, ext, ok := objectstore.MediaType(contentType)
	if !ok {
		return nil, errors.InvalidFile("story media must be a JPEG, PNG, GIF or WebP image or an MP4, WebM or QuickTime video")
	}
	isVideo := strings.HasPrefix(mediaType, "video/")

	now := s.clock.Now()
	key := fmt.Sprintf("%s/story-%d%s", state.Session.UserID, now.UnixMilli(), ext)
	err := s.objects.Upload(ctx, s.bucket, key, data, objectstore.UploadOptions{ContentType: mediaType})
	if err != nil {
		return nil, errors.UploadFailed(err)
	}

	item := domain.StoryItem{
		ID:           uuid.New(),
		AuthorID:     state.Session.UserID,
		AuthorHandle: state.Profile.Username,
		AvatarRef:    state.Profile.AvatarRef,
		MediaRef:     s.objects.PublicURL(s.bucket, key),
		MediaKey:     key,
		IsVideo:      isVideo,
		PostedAt:     now,
	}
	if err := s.stories.Create(ctx, item); err != nil {
		if derr := s.objects.Delete(ctx, s.bucket, key); derr != nil {
			s.logger.Warn("Failed to remove orphaned story media", "key", key, "error", derr)
		}
		return nil, errors.StoreUnavailable(err, "failed to save story")
	}

	s.logger.Info("Story posted", "story_id", item.ID, "author", item.AuthorHandle, "file_name", fileName)
	return &item, nil
}
