package feed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/internal/domain"
	mock_notify "github.com/orgball2608/vibestream/internal/notify/mocks"
	"github.com/orgball2608/vibestream/internal/objectstore"
	mock_objectstore "github.com/orgball2608/vibestream/internal/objectstore/mocks"
	"github.com/orgball2608/vibestream/internal/repositories/story"
	mock_story "github.com/orgball2608/vibestream/internal/repositories/story/mocks"
	"github.com/orgball2608/vibestream/internal/session"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/errors"
	"github.com/orgball2608/vibestream/pkg/logger"
	"go.uber.org/mock/gomock"
)

type staticIdentity session.State

func (s staticIdentity) State() session.State { return session.State(s) }

type fixture struct {
	service  *Service
	stories  *mock_story.MockRepository
	objects  *mock_objectstore.MockStorage
	notifier *mock_notify.MockClient
	clock    *clockwork.FakeClock
}

func newFixture(t *testing.T, identity Identity) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		stories:  mock_story.NewMockRepository(ctrl),
		objects:  mock_objectstore.NewMockStorage(ctrl),
		notifier: mock_notify.NewMockClient(ctrl),
		clock:    clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
	}

	cfg := &config.Config{}
	cfg.Story.Retention = 24 * time.Hour
	cfg.Storage.StoryBucket = "stories"
	cfg.Storage.MaxStorySize = 1 << 20

	f.service = NewService(f.stories, f.objects, f.notifier, identity, logger.NewNop(), f.clock, cfg)
	return f
}

func signedIn(username string) staticIdentity {
	userID := uuid.New()
	return staticIdentity{
		Session: &domain.Session{UserID: userID},
		Profile: &domain.Profile{UserID: userID, Username: username, AvatarRef: "http://cdn/avatar.png"},
	}
}

func TestActive_GroupsByAuthor(t *testing.T) {
	f := newFixture(t, staticIdentity{})
	alice, bob := uuid.New(), uuid.New()

	f.stories.EXPECT().ListActive(gomock.Any(), f.clock.Now().Add(-24*time.Hour)).Return([]domain.StoryItem{
		{AuthorID: alice, AuthorHandle: "alice"},
		{AuthorID: alice, AuthorHandle: "alice"},
		{AuthorID: bob, AuthorHandle: "bob"},
	}, nil)

	groups, err := f.service.Active(context.Background())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(groups) != 2 || len(groups[0].Items) != 2 || groups[1].AuthorHandle != "bob" {
		t.Fatalf("groups = %+v", groups)
	}
}

func TestActive_StoreError(t *testing.T) {
	f := newFixture(t, staticIdentity{})
	f.stories.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	if _, err := f.service.Active(context.Background()); !errors.IsStoreUnavailable(err) {
		t.Fatalf("err = %v, want store unavailable", err)
	}
}

func TestByAuthor(t *testing.T) {
	f := newFixture(t, staticIdentity{})
	author := uuid.New()
	since := f.clock.Now().Add(-24 * time.Hour)

	f.stories.EXPECT().GetByAuthor(gomock.Any(), author, since).Return([]domain.StoryItem{
		{ID: uuid.New(), AuthorID: author, AuthorHandle: "alice", MediaRef: "a1.jpg"},
		{ID: uuid.New(), AuthorID: author, AuthorHandle: "alice", MediaRef: "a2.jpg"},
	}, nil)

	group, err := f.service.ByAuthor(context.Background(), author)
	if err != nil {
		t.Fatalf("ByAuthor: %v", err)
	}
	if group == nil || group.AuthorHandle != "alice" || len(group.Items) != 2 {
		t.Fatalf("group = %+v", group)
	}
}

func TestByAuthor_NoStories(t *testing.T) {
	f := newFixture(t, staticIdentity{})
	f.stories.EXPECT().GetByAuthor(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	group, err := f.service.ByAuthor(context.Background(), uuid.New())
	if err != nil || group != nil {
		t.Fatalf("got %+v, %v; want nil, nil", group, err)
	}
}

func TestByAuthor_NotFoundIsEmpty(t *testing.T) {
	f := newFixture(t, staticIdentity{})
	f.stories.EXPECT().GetByAuthor(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, story.ErrNotFound)

	group, err := f.service.ByAuthor(context.Background(), uuid.New())
	if err != nil || group != nil {
		t.Fatalf("got %+v, %v; want nil, nil", group, err)
	}
}

func TestPost_RequiresSession(t *testing.T) {
	f := newFixture(t, staticIdentity{})

	_, err := f.service.Post(context.Background(), []byte("x"), "a.jpg", "image/jpeg")
	if !errors.IsUnauthenticated(err) {
		t.Fatalf("err = %v, want unauthenticated", err)
	}
}

func TestPost_RejectsUnsupportedMedia(t *testing.T) {
	f := newFixture(t, signedIn("alice"))

	_, err := f.service.Post(context.Background(), []byte("x"), "a.txt", "text/plain")
	if !errors.IsInvalidFile(err) {
		t.Fatalf("err = %v, want invalid file", err)
	}
}

func TestPost_UploadsAndCreates(t *testing.T) {
	identity := signedIn("alice")
	f := newFixture(t, identity)
	userID := identity.Session.UserID

	f.objects.EXPECT().
		Upload(gomock.Any(), "stories", gomock.Any(), []byte("mp4"), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, key string, _ []byte, _ objectstore.UploadOptions) error {
			if !strings.HasPrefix(key, userID.String()+"/story-") || !strings.HasSuffix(key, ".mp4") {
				t.Fatalf("key = %q", key)
			}
			return nil
		})
	f.objects.EXPECT().PublicURL("stories", gomock.Any()).Return("http://cdn/stories/x.mp4")
	f.stories.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	item, err := f.service.Post(context.Background(), []byte("mp4"), "clip.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !item.IsVideo || item.AuthorHandle != "alice" || item.MediaRef != "http://cdn/stories/x.mp4" {
		t.Fatalf("item = %+v", item)
	}
	if !item.PostedAt.Equal(f.clock.Now()) {
		t.Fatalf("posted_at = %v", item.PostedAt)
	}
}

func TestPost_ExtensionFollowsContentType(t *testing.T) {
	identity := signedIn("alice")
	f := newFixture(t, identity)

	f.objects.EXPECT().
		Upload(gomock.Any(), "stories", gomock.Any(), gomock.Any(), objectstore.UploadOptions{ContentType: "image/jpeg"}).
		DoAndReturn(func(_ context.Context, _, key string, _ []byte, _ objectstore.UploadOptions) error {
			if !strings.HasSuffix(key, ".jpg") {
				t.Fatalf("key = %q, want .jpg extension", key)
			}
			return nil
		})
	f.objects.EXPECT().PublicURL("stories", gomock.Any()).Return("http://cdn/stories/x.jpg")
	f.stories.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	if _, err := f.service.Post(context.Background(), []byte("<html>"), "page.html", "IMAGE/JPEG"); err != nil {
		t.Fatalf("post: %v", err)
	}
}

func TestPost_RejectsSVG(t *testing.T) {
	f := newFixture(t, signedIn("alice"))

	_, err := f.service.Post(context.Background(), []byte("<svg/>"), "a.svg", "image/svg+xml")
	if !errors.IsInvalidFile(err) {
		t.Fatalf("err = %v, want invalid file", err)
	}
}

func TestPost_RemovesMediaWhenRowFails(t *testing.T) {
	f := newFixture(t, signedIn("alice"))

	var stored string
	f.objects.EXPECT().Upload(gomock.Any(), "stories", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, key string, _ []byte, _ objectstore.UploadOptions) error {
			stored = key
			return nil
		})
	f.objects.EXPECT().PublicURL("stories", gomock.Any()).Return("http://cdn/stories/x.png")
	f.stories.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
	f.objects.EXPECT().Delete(gomock.Any(), "stories", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, key string) error {
			if key != stored {
				t.Fatalf("deleted %q, want %q", key, stored)
			}
			return nil
		})

	if _, err := f.service.Post(context.Background(), []byte("png"), "a.png", "image/png"); !errors.IsStoreUnavailable(err) {
		t.Fatalf("err = %v, want store unavailable", err)
	}
}

func TestCleanup_NotifiesOnFailure(t *testing.T) {
	f := newFixture(t, staticIdentity{})

	f.stories.EXPECT().CleanupOldRecords(gomock.Any(), f.clock.Now().Add(-24*time.Hour)).Return(nil, errors.New("db down"))
	f.notifier.EXPECT().Notify(gomock.Any())

	if err := f.service.Cleanup(context.Background()); err == nil {
		t.Fatal("expected cleanup error")
	}
}

func TestCleanup_DeletesExpiredMedia(t *testing.T) {
	f := newFixture(t, staticIdentity{})

	f.stories.EXPECT().CleanupOldRecords(gomock.Any(), f.clock.Now().Add(-24*time.Hour)).
		Return([]string{"u1/story-1.jpg", "", "u2/story-2.mp4"}, nil)
	f.objects.EXPECT().Delete(gomock.Any(), "stories", "u1/story-1.jpg").Return(nil)
	f.objects.EXPECT().Delete(gomock.Any(), "stories", "u2/story-2.mp4").Return(nil)

	if err := f.service.Cleanup(context.Background()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestCleanup_ReportsMediaDeleteFailure(t *testing.T) {
	f := newFixture(t, staticIdentity{})

	f.stories.EXPECT().CleanupOldRecords(gomock.Any(), gomock.Any()).Return([]string{"a.jpg", "b.jpg"}, nil)
	f.objects.EXPECT().Delete(gomock.Any(), "stories", "a.jpg").Return(errors.New("permission denied"))
	f.objects.EXPECT().Delete(gomock.Any(), "stories", "b.jpg").Return(nil)
	f.notifier.EXPECT().Notify(gomock.Any())

	if err := f.service.Cleanup(context.Background()); err == nil {
		t.Fatal("expected cleanup error")
	}
}
