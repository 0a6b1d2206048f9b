package httpapi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/orgball2608/vibestream/internal/feed"
	"github.com/orgball2608/vibestream/internal/session"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	LC      fx.Lifecycle
	Config  *config.Config
	Logger  logger.Logger
	Session *session.Store
	Feed    *feed.Service
}

type Server struct {
	store  SessionStore
	feed   StoryFeed
	hub    *Hub
	logger logger.Logger

	storageRoot   string
	maxAvatarSize int64
	maxStorySize  int64

	upgrader websocket.Upgrader
	http     *http.Server
}

func New(opts Opts) *Server {
	s := NewServer(opts.Session, opts.Feed, opts.Logger, opts.Config)
	addr := opts.Config.GetListenAddr()

	var unwatch func()
	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", addr, err)
			}

			go s.hub.Run()
			unwatch = s.store.Watch(s.hub.Publish)

			s.logger.Info("Starting server", "addr", addr)
			go func() {
				if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("Server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if unwatch != nil {
				unwatch()
			}
			s.hub.Stop()
			return s.http.Shutdown(ctx)
		},
	})

	return s
}

func NewServer(store SessionStore, feed StoryFeed, log logger.Logger, cfg *config.Config) *Server {
	log = log.WithComponent("HTTP")
	s := &Server{
		store:         store,
		feed:          feed,
		hub:           NewHub(log),
		logger:        log,
		storageRoot:   cfg.Storage.Root,
		maxAvatarSize: cfg.Storage.MaxAvatarSize,
		maxStorySize:  cfg.Storage.MaxStorySize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("GET /v1/session", s.handleGetSession)
	mux.HandleFunc("GET /v1/session/ws", s.handleSessionWS)

	mux.HandleFunc("POST /v1/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /v1/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /v1/auth/signout", s.handleSignOut)

	mux.HandleFunc("PATCH /v1/profile", s.handleUpdateProfile)
	mux.HandleFunc("POST /v1/profile/refresh", s.handleRefreshProfile)
	mux.HandleFunc("POST /v1/profile/avatar", s.handleUploadAvatar)

	mux.HandleFunc("GET /v1/stories", s.handleListStories)
	mux.HandleFunc("POST /v1/stories", s.handlePostStory)
	mux.HandleFunc("GET /v1/stories/{authorID}", s.handleAuthorStories)

	mux.Handle("GET /storage/", serveMedia(http.StripPrefix("/storage/", http.FileServer(mediaFS{http.Dir(s.storageRoot)}))))

	return s.logRequests(mux)
}

// mediaFS hides directories so uploads cannot be enumerated.
type mediaFS struct {
	fs http.FileSystem
}

func (m mediaFS) Open(name string) (http.File, error) {
	f, err := m.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

// serveMedia stops browsers from sniffing or running stored uploads as documents.
func serveMedia(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is needed for WebSocket upgrades.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
