package config

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Host      string `env:"APP_HOST" env-default:"127.0.0.1"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Auth struct {
		JWTSecret       string        `env:"AUTH_JWT_SECRET"`
		Issuer          string        `env:"AUTH_ISSUER" env-default:"vibestream"`
		TokenTTL        time.Duration `env:"AUTH_TOKEN_TTL" env-default:"1h"`
		RefreshInterval time.Duration `env:"AUTH_REFRESH_INTERVAL" env-default:"5m"`
		SessionPath     string        `env:"AUTH_SESSION_PATH" env-default:"./vibestream-session"`
		LoadingTimeout  time.Duration `env:"AUTH_LOADING_TIMEOUT" env-default:"5s"`
		SignInPerMinute int           `env:"AUTH_SIGNIN_PER_MINUTE" env-default:"5"`
	}
	Storage struct {
		Root          string `env:"STORAGE_ROOT" env-default:"./storage"`
		PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" env-default:"http://localhost:8080/storage"`
		AvatarBucket  string `env:"STORAGE_AVATAR_BUCKET" env-default:"avatars"`
		MaxAvatarSize int64  `env:"STORAGE_MAX_AVATAR_SIZE" env-default:"5242880"`
		StoryBucket   string `env:"STORAGE_STORY_BUCKET" env-default:"stories"`
		MaxStorySize  int64  `env:"STORAGE_MAX_STORY_SIZE" env-default:"52428800"`
	}
	Story struct {
		TickInterval  time.Duration `env:"STORY_TICK_INTERVAL" env-default:"100ms"`
		ImageDuration time.Duration `env:"STORY_IMAGE_DURATION" env-default:"5s"`
		VideoDuration time.Duration `env:"STORY_VIDEO_DURATION" env-default:"15s"`
		Retention     time.Duration `env:"STORY_RETENTION" env-default:"24h"`
	}
	Telegram struct {
		User  int64  `env:"TELEGRAM_USER"`
		Token string `env:"TELEGRAM_TOKEN"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetListenAddr returns the host:port the local API binds to.
func (c *Config) GetListenAddr() string {
	return net.JoinHostPort(c.App.Host, strconv.Itoa(c.App.Port))
}

// GetDSN returns the lib/pq connection string used by migrations.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// GetPoolURL returns the pgx connection URL.
func (c *Config) GetPoolURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
