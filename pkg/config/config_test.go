package config

import (
	"os"
	"testing"

	"github.com/ilyakaznacheev/cleanenv"
)

func TestDefaults_BindLoopback(t *testing.T) {
	for _, key := range []string{"APP_HOST", "APP_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		t.Fatalf("read env: %v", err)
	}

	if got := cfg.GetListenAddr(); got != "127.0.0.1:8080" {
		t.Fatalf("listen addr = %q, want 127.0.0.1:8080", got)
	}
}

func TestGetListenAddr(t *testing.T) {
	var cfg Config
	cfg.App.Host = "::1"
	cfg.App.Port = 9000

	if got := cfg.GetListenAddr(); got != "[::1]:9000" {
		t.Fatalf("listen addr = %q, want [::1]:9000", got)
	}
}
