package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "SQLite")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.DBDriver)
	}
	if cfg.SessionTTL != 72*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.SessionTTL)
	}
	if cfg.PasswordMinLen != 8 || cfg.MaxUploadBytes != 5<<20 {
		t.Fatalf("unexpected limits %d / %d", cfg.PasswordMinLen, cfg.MaxUploadBytes)
	}
	if cfg.CloudinaryConfig.Enabled() {
		t.Fatalf("cloudinary must be disabled without credentials")
	}
}

func TestLoadConfigDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PGHOST", "db")
	t.Setenv("PGDATABASE", "food")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "postgres://foodshare_user:foodshare_pass@db:5432/food?sslmode=disable"
	if cfg.DatabaseURL != want {
		t.Fatalf("expected %s, got %s", want, cfg.DatabaseURL)
	}

	t.Setenv("DATABASE_URL", "postgres://override")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://override" {
		t.Fatalf("DATABASE_URL must win, got %s", cfg.DatabaseURL)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {"JWT_SECRET": ""},
		"bad driver":     {"JWT_SECRET": "s", "DB_DRIVER": "mongo"},
		"bad ttl":        {"JWT_SECRET": "s", "SESSION_TTL": "soon"},
		"bad min length": {"JWT_SECRET": "s", "PASSWORD_MIN_LENGTH": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected %v", got)
	}
}
