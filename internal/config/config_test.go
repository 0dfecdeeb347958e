package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/turbostock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "development" || !cfg.IsDevelopment() {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("HTTP.Port = %q, want 8080", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeout != 15*time.Second {
		t.Errorf("HTTP.ReadTimeout = %v, want 15s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("Database.MaxConns = %d, want 25", cfg.Database.MaxConns)
	}
	if cfg.Pricing.Markup != "1.2" || cfg.Pricing.Rule != "" {
		t.Errorf("Pricing = %+v, want default markup and no rule", cfg.Pricing)
	}
	if cfg.Repair.Parallelism != 4 {
		t.Errorf("Repair.Parallelism = %d, want 4", cfg.Repair.Parallelism)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/shop")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PRICING_RULE", "cost * 1.3")
	t.Setenv("REPAIR_PARALLELISM", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false in production")
	}
	if cfg.HTTP.Port != "9090" {
		t.Errorf("HTTP.Port = %q, want 9090", cfg.HTTP.Port)
	}
	if cfg.Pricing.Rule != "cost * 1.3" {
		t.Errorf("Pricing.Rule = %q", cfg.Pricing.Rule)
	}
	if cfg.Repair.Parallelism != 8 {
		t.Errorf("Repair.Parallelism = %d, want 8", cfg.Repair.Parallelism)
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	// t.Setenv registers the restore; the variable must be absent, not empty.
	t.Setenv("DATABASE_URL", "placeholder")
	os.Unsetenv("DATABASE_URL")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without DATABASE_URL, want error")
	}
}
