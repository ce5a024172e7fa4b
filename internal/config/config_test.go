package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "5000" {
		t.Errorf("Server.Port = %q, want 5000", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("Storage.Backend = %q, want local", cfg.Storage.Backend)
	}
	if cfg.App.PendingTTL != 2*time.Hour {
		t.Errorf("App.PendingTTL = %v, want 2h", cfg.App.PendingTTL)
	}
	if cfg.App.OfferDefaultQty != 1 {
		t.Errorf("App.OfferDefaultQty = %d, want 1", cfg.App.OfferDefaultQty)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://u:p@db:5432/blachy")
	t.Setenv("PENDING_TTL", "30m")
	t.Setenv("OFFER_DEFAULT_QTY", "3")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://u:p@db:5432/blachy" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.App.PendingTTL != 30*time.Minute {
		t.Errorf("App.PendingTTL = %v, want 30m", cfg.App.PendingTTL)
	}
	if cfg.App.OfferDefaultQty != 3 {
		t.Errorf("App.OfferDefaultQty = %d, want 3", cfg.App.OfferDefaultQty)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadMinIORequiresEndpoint(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "minio")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when MINIO_ENDPOINT is missing")
	}
}
