package authimpl

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/internal/auth"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/ratelimit"
	"github.com/orgball2608/vibestream/internal/repositories/account"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	LC       fx.Lifecycle
	Config   *config.Config
	Logger   logger.Logger
	Accounts account.Repository
	Clock    clockwork.Clock
}

// Provider is a password-based identity provider issuing HS256 session tokens.
// The current token is persisted to disk so a restarted process keeps its session.
type Provider struct {
	accounts    account.Repository
	logger      logger.Logger
	clock       clockwork.Clock
	limiter     ratelimit.Limiter
	broadcaster *auth.Broadcaster
	scheduler   gocron.Scheduler

	secret          []byte
	issuer          string
	tokenTTL        time.Duration
	refreshInterval time.Duration
	sessionPath     string

	// opMu serializes state changes so events publish in the order they happen.
	opMu    sync.Mutex
	mu      sync.Mutex
	current *domain.Session
	loaded  bool
}

func New(opts Opts) (*Provider, error) {
	log := opts.Logger.WithComponent("AuthProvider")

	secret := []byte(opts.Config.Auth.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		log.Warn("AUTH_JWT_SECRET is not set, sessions will not survive a restart")
	}

	scheduler, err := gocron.NewScheduler(gocron.WithClock(opts.Clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create token refresh scheduler: %w", err)
	}

	p := &Provider{
		accounts:        opts.Accounts,
		logger:          log,
		clock:           opts.Clock,
		limiter:         ratelimit.NewInMemoryLimiter(opts.Config.Auth.SignInPerMinute, time.Minute, opts.Config.Auth.SignInPerMinute),
		broadcaster:     auth.NewBroadcaster(),
		scheduler:       scheduler,
		secret:          secret,
		issuer:          opts.Config.Auth.Issuer,
		tokenTTL:        opts.Config.Auth.TokenTTL,
		refreshInterval: opts.Config.Auth.RefreshInterval,
		sessionPath:     opts.Config.Auth.SessionPath,
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return p.scheduleRefresh()
		},
		OnStop: func(ctx context.Context) error {
			if err := p.scheduler.Shutdown(); err != nil {
				p.logger.Error("Failed to shut down token refresh scheduler", "error", err)
			}
			return nil
		},
	})

	return p, nil
}

var _ auth.Provider = (*Provider)(nil)

func (p *Provider) Subscribe() *auth.Subscription {
	return p.broadcaster.Subscribe()
}

func (p *Provider) GetSession(ctx context.Context) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		sess, err := p.loadPersisted()
		if err != nil {
			return nil, err
		}
		p.current = sess
		p.loaded = true
	}

	return copySession(p.current), nil
}

// loadPersisted reads the stored token. Missing, invalid or expired tokens yield no session.
func (p *Provider) loadPersisted() (*domain.Session, error) {
	if p.sessionPath == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(p.sessionPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	sess, err := p.parseToken(strings.TrimSpace(string(raw)))
	if err != nil {
		p.logger.Info("Discarding stored session", "reason", err)
		_ = os.Remove(p.sessionPath)
		return nil, nil
	}
	return sess, nil
}

func (p *Provider) persist(sess *domain.Session) error {
	if p.sessionPath == "" {
		return nil
	}
	if sess == nil {
		if err := os.Remove(p.sessionPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.sessionPath), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(p.sessionPath, []byte(sess.AccessToken), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// setCurrent must be called with opMu held.
func (p *Provider) setCurrent(kind auth.EventKind, sess *domain.Session) {
	if err := p.persist(sess); err != nil {
		p.logger.Warn("Session not persisted", "error", err)
	}

	p.mu.Lock()
	p.current = sess
	p.loaded = true
	p.mu.Unlock()

	p.broadcaster.Publish(auth.Event{Kind: kind, Session: copySession(sess)})
}

func copySession(sess *domain.Session) *domain.Session {
	if sess == nil {
		return nil
	}
	c := *sess
	return &c
}
