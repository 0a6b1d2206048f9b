package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/profile"
	profilerepo "github.com/orgball2608/vibestream/internal/repositories/profile"
	"github.com/orgball2608/vibestream/pkg/errors"
	"github.com/samber/lo"
)

// LoadOrCreateProfile fetches the profile of userID, provisioning a default
// one when none exists yet.
func (s *Store) LoadOrCreateProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	_, st := s.current()
	return s.loadOrCreate(ctx, userID, st)
}

// RefreshProfile re-reads the profile of the signed-in user and replaces the cache.
func (s *Store) RefreshProfile(ctx context.Context) error {
	sess, st := s.current()
	if !sess.IsAuthenticated() {
		return nil
	}
	_, err := s.loadOrCreate(ctx, sess.UserID, st)
	return err
}

func (s *Store) loadOrCreate(ctx context.Context, userID uuid.UUID, st stamp) (*domain.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		s.storeProfile(st, p)
		return copyProfile(p), nil
	case !errors.Is(err, profilerepo.ErrNotFound):
		return nil, errors.StoreUnavailable(err, "failed to fetch profile")
	}

	s.logger.Info("No profile found, creating default profile", "user_id", userID)

	created, err := s.provision(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.storeProfile(st, created)
	return copyProfile(created), nil
}

func (s *Store) provision(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	defaults := domain.DefaultProfile(userID, s.metadataFor(userID), s.clock.Now())

	created, err := s.profiles.Create(ctx, defaults)
	if errors.Is(err, profilerepo.ErrUsernameTaken) && defaults.Username != "" {
		s.logger.Info("Sign-up username already taken, provisioning without one",
			"user_id", userID, "username", defaults.Username)
		defaults.Username = ""
		created, err = s.profiles.Create(ctx, defaults)
	}
	if errors.Is(err, profilerepo.ErrAlreadyExists) {
		// provisioned concurrently by another writer
		created, err = s.profiles.GetByUserID(ctx, userID)
	}
	if err != nil {
		return nil, errors.StoreUnavailable(err, "failed to create default profile")
	}
	return created, nil
}

// metadataFor returns sanitized sign-up metadata when userID is the signed-in user.
func (s *Store) metadataFor(userID uuid.UUID) domain.UserMetadata {
	sess, _ := s.current()
	if !sess.IsAuthenticated() || sess.UserID != userID {
		return domain.UserMetadata{}
	}

	meta := domain.UserMetadata{FullName: strings.TrimSpace(sess.Metadata.FullName)}
	if username, err := profile.CanonicalUsername(sess.Metadata.Username); err == nil {
		meta.Username = username
	}
	return meta
}

// UpdateProfile writes patch for the signed-in user and merges it into the
// cached profile without a re-read.
func (s *Store) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) error {
	s.mu.Lock()
	sess := copySession(s.session)
	cached := copyProfile(s.profile)
	epoch := s.epoch
	s.mu.Unlock()

	if !sess.IsAuthenticated() {
		return errors.Unauthenticated()
	}
	userID := sess.UserID

	patch, err := profile.NormalizePatch(patch)
	if err != nil {
		return err
	}

	if patch.Username != nil && *patch.Username != "" && (cached == nil || *patch.Username != cached.Username) {
		taken, err := s.profiles.UsernameTaken(ctx, *patch.Username, userID)
		if err != nil {
			return errors.StoreUnavailable(err, "failed to check username")
		}
		if taken {
			return errors.UsernameTaken(*patch.Username)
		}
	}

	exists, err := s.profiles.ExistsByUserID(ctx, userID)
	if err != nil {
		return errors.StoreUnavailable(err, "failed to check profile")
	}

	now := s.clock.Now()
	if exists {
		err = s.profiles.Update(ctx, userID, patch, now)
	} else {
		err = s.insertPatch(ctx, userID, patch, now)
	}
	if err != nil {
		if errors.Is(err, profilerepo.ErrUsernameTaken) {
			return errors.UsernameTaken(lo.FromPtr(patch.Username))
		}
		return errors.StoreUnavailable(err, "failed to save profile")
	}

	s.mergeProfile(epoch, userID, patch, now)
	s.logger.Info("Profile updated", "user_id", userID)
	return nil
}

func (s *Store) insertPatch(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch, now time.Time) error {
	row := domain.DefaultProfile(userID, domain.UserMetadata{}, now).Apply(patch, now)
	_, err := s.profiles.Create(ctx, row)
	if errors.Is(err, profilerepo.ErrAlreadyExists) {
		return s.profiles.Update(ctx, userID, patch, now)
	}
	return err
}

// mergeProfile applies a stored patch to the cache. It is skipped only when
// the signed-in identity changed while the write was in flight.
func (s *Store) mergeProfile(epoch uint64, userID uuid.UUID, patch domain.ProfilePatch, now time.Time) {
	s.mu.Lock()
	if s.epoch != epoch || !s.session.IsAuthenticated() || s.session.UserID != userID {
		s.mu.Unlock()
		return
	}
	s.writes++

	base := domain.Profile{UserID: userID}
	if s.profile != nil {
		base = *s.profile
	}
	merged := base.Apply(patch, now)
	s.profile = &merged
	s.mu.Unlock()

	s.notify()
}
