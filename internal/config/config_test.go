package config_test

import (
	"testing"
	"time"

	"stockbook/internal/config"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := config.LoadEnv()

	if cfg.JWT.TTL != 24*time.Hour {
		t.Errorf("JWT TTL = %v, want 24h", cfg.JWT.TTL)
	}
	if cfg.Seed.AdminUsername == "" {
		t.Error("expected a default admin username")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("FORECAST_TIMEOUT", "3s")
	t.Setenv("DEFAULT_GST_RATE", "12")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg := config.LoadEnv()

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Storage.Driver != config.StorageMemory {
		t.Errorf("Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Forecast.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cfg.Forecast.Timeout)
	}
	if cfg.GST.DefaultRate.String() != "12" {
		t.Errorf("DefaultRate = %s", cfg.GST.DefaultRate)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Seed.DemoData {
		t.Error("SEED_DEMO_DATA not applied")
	}
}

func TestLoadEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("FORECAST_TIMEOUT", "soon")
	t.Setenv("DEFAULT_GST_RATE", "eighteen")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	cfg := config.LoadEnv()

	if cfg.Forecast.Timeout != 8*time.Second {
		t.Errorf("Timeout = %v, want 8s", cfg.Forecast.Timeout)
	}
	if cfg.GST.DefaultRate.String() != "18" {
		t.Errorf("DefaultRate = %s, want 18", cfg.GST.DefaultRate)
	}
	if cfg.Postgres.MaxOpenConns != 10 {
		t.Errorf("MaxOpenConns = %d, want 10", cfg.Postgres.MaxOpenConns)
	}
}

func TestPostgresDSN(t *testing.T) {
	c := config.PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	want := "postgres://u:p@db:5432/n?sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
