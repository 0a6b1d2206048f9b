// Package session keeps the process-wide view of who is signed in and their profile.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/internal/auth"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/objectstore"
	profilerepo "github.com/orgball2608/vibestream/internal/repositories/profile"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/logger"
	"go.uber.org/fx"
)

// State is a snapshot of the store. Session and Profile are copies.
type State struct {
	Loading bool            `json:"loading"`
	Session *domain.Session `json:"session"`
	Profile *domain.Profile `json:"profile"`
}

// stamp identifies the cache state a profile read started from.
type stamp struct {
	epoch  uint64
	writes uint64
}

type Opts struct {
	fx.In

	LC       fx.Lifecycle
	Config   *config.Config
	Logger   logger.Logger
	Auth     auth.Provider
	Profiles profilerepo.Repository
	Objects  objectstore.Storage
	Clock    clockwork.Clock
}

type Store struct {
	auth     auth.Provider
	profiles profilerepo.Repository
	objects  objectstore.Storage
	logger   logger.Logger
	clock    clockwork.Clock

	loadingTimeout time.Duration
	avatarBucket   string
	maxAvatarSize  int64

	mu      sync.Mutex
	loading bool
	session *domain.Session
	profile *domain.Profile
	// events counts applied auth changes.
	events uint64
	// epoch moves only when the signed-in identity changes. Profile results
	// started under an older epoch are dropped.
	epoch uint64
	// writes counts profile writes merged into the cache. A fetch that
	// started before a write landed must not replace the merged profile.
	writes uint64

	ready     chan struct{}
	readyOnce sync.Once

	listenersMu  sync.Mutex
	listeners    map[int]func(State)
	nextListener int

	lifeMu  sync.Mutex
	started bool
	sub     *auth.Subscription
	timer   clockwork.Timer
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(opts Opts) *Store {
	s := NewStore(opts.Auth, opts.Profiles, opts.Objects, opts.Logger, opts.Clock, opts.Config)

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Initialize(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Teardown()
			return nil
		},
	})

	return s
}

func NewStore(
	provider auth.Provider,
	profiles profilerepo.Repository,
	objects objectstore.Storage,
	log logger.Logger,
	clock clockwork.Clock,
	cfg *config.Config,
) *Store {
	return &Store{
		auth:           provider,
		profiles:       profiles,
		objects:        objects,
		logger:         log.WithComponent("SessionStore"),
		clock:          clock,
		loadingTimeout: cfg.Auth.LoadingTimeout,
		avatarBucket:   cfg.Storage.AvatarBucket,
		maxAvatarSize:  cfg.Storage.MaxAvatarSize,
		loading:        true,
		ready:          make(chan struct{}),
		listeners:      make(map[int]func(State)),
	}
}

// Initialize subscribes to auth changes, fetches the current session in the
// background and arms the loading timeout. It never blocks on the provider.
func (s *Store) Initialize(ctx context.Context) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if s.started {
		return
	}
	s.started = true

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.sub = s.auth.Subscribe()

	s.timer = s.clock.AfterFunc(s.loadingTimeout, func() {
		if s.isLoading() {
			s.logger.Warn("Auth loading timed out, continuing with the known session")
		}
		s.resolveLoading()
	})

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.listen(runCtx, s.sub)
	}()
	go func() {
		defer s.wg.Done()
		s.bootstrap(runCtx)
	}()

	s.logger.Info("Session store initialized", "loading_timeout", s.loadingTimeout)
}

// Teardown releases the subscription and the timer and waits for background work.
func (s *Store) Teardown() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if !s.started {
		return
	}
	s.started = false

	s.timer.Stop()
	s.sub.Unsubscribe()
	s.cancel()
	s.wg.Wait()

	s.logger.Info("Session store stopped")
}

func (s *Store) listen(ctx context.Context, sub *auth.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			return
		case ev := <-sub.C:
			s.logger.Debug("Auth event received", "kind", ev.Kind)
			s.OnAuthEvent(ctx, ev.Session)
		}
	}
}

// bootstrap applies the initial session unless an auth event got there first.
func (s *Store) bootstrap(ctx context.Context) {
	s.mu.Lock()
	startEvents := s.events
	s.mu.Unlock()

	sess, err := s.auth.GetSession(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Failed to get initial session", "error", err)
			s.resolveLoading()
		}
		return
	}

	s.mu.Lock()
	if s.events != startEvents {
		s.mu.Unlock()
		return
	}
	st := s.applySessionLocked(sess)
	s.mu.Unlock()
	s.notify()

	if sess.IsAuthenticated() {
		if _, err := s.loadOrCreate(ctx, sess.UserID, st); err != nil {
			s.logger.Error("Failed to load profile", "user_id", sess.UserID, "error", err)
		}
	}
	s.resolveLoading()
}

// OnAuthEvent applies one auth change. A present session loads or provisions
// its profile; an absent one clears the cached profile.
func (s *Store) OnAuthEvent(ctx context.Context, sess *domain.Session) {
	s.mu.Lock()
	st := s.applySessionLocked(sess)
	s.mu.Unlock()
	s.notify()

	if sess.IsAuthenticated() {
		if _, err := s.loadOrCreate(ctx, sess.UserID, st); err != nil {
			s.logger.Error("Failed to load profile", "user_id", sess.UserID, "error", err)
		}
	}
	s.resolveLoading()
}

// applySessionLocked installs sess. Token refreshes for the same user keep
// the epoch and the cached profile; sign-out or a user switch clears both.
func (s *Store) applySessionLocked(sess *domain.Session) stamp {
	s.events++
	if sameIdentity(s.session, sess) {
		s.session = copySession(sess)
		return stamp{epoch: s.epoch, writes: s.writes}
	}

	s.epoch++
	s.session = copySession(sess)
	if s.profile != nil && (!sess.IsAuthenticated() || s.profile.UserID != sess.UserID) {
		s.profile = nil
	}
	return stamp{epoch: s.epoch, writes: s.writes}
}

func sameIdentity(a, b *domain.Session) bool {
	if !a.IsAuthenticated() || !b.IsAuthenticated() {
		return false
	}
	return a.UserID == b.UserID
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	return State{
		Loading: s.loading,
		Session: copySession(s.session),
		Profile: copyProfile(s.profile),
	}
}

// Ready is closed once loading has resolved.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Watch calls fn with a fresh snapshot after every change until the returned func is called.
func (s *Store) Watch(fn func(State)) func() {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) notify() {
	state := s.State()

	s.listenersMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *Store) isLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) resolveLoading() {
	changed := false
	s.readyOnce.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		close(s.ready)
		changed = true
	})
	if changed {
		s.notify()
	}
}

// current returns the active session and the stamp reads should start from.
func (s *Store) current() (*domain.Session, stamp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.session), stamp{epoch: s.epoch, writes: s.writes}
}

// storeProfile caches p unless the identity changed or a write was merged since st.
func (s *Store) storeProfile(st stamp, p *domain.Profile) bool {
	s.mu.Lock()
	if s.epoch != st.epoch || s.writes != st.writes || !s.session.IsAuthenticated() || s.session.UserID != p.UserID {
		s.mu.Unlock()
		s.logger.Debug("Dropping stale profile result", "user_id", p.UserID)
		return false
	}
	s.profile = copyProfile(p)
	s.mu.Unlock()
	s.notify()
	return true
}

func copySession(sess *domain.Session) *domain.Session {
	if sess == nil {
		return nil
	}
	c := *sess
	return &c
}

func copyProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
