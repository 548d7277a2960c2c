package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %s, want sqlite", cfg.DatabaseType)
	}
	if cfg.SessionDuration != 720*time.Hour {
		t.Errorf("SessionDuration = %s, want 720h", cfg.SessionDuration)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/egg")
	t.Setenv("SESSION_DURATION", "1h")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("DatabaseType = %s, want postgres", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "postgres://localhost/egg" {
		t.Errorf("DatabaseURL = %s, want postgres://localhost/egg", cfg.DatabaseURL)
	}
	if cfg.SessionDuration != time.Hour {
		t.Errorf("SessionDuration = %s, want 1h", cfg.SessionDuration)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SESSION_DURATION", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted an invalid duration")
	}
}
