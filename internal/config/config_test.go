package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setBase(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/carnales?parseTime=true")
	t.Setenv("COOKIE_SECRET", testSecret)
}

func TestLoadFromEnvDefaults(t *testing.T) {
	setBase(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.Currency != "MXN" || cfg.ResolverCacheSize != 4096 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CatalogTimeout != 2*time.Second || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CartCookieName != "carnales_cart" || cfg.FlashCookieName != "carnales_flash" {
		t.Fatalf("unexpected cookie names: %+v", cfg)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	setBase(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("STORE_CURRENCY", "usd")
	t.Setenv("RESOLVER_CACHE_SIZE", "128")
	t.Setenv("CATALOG_TIMEOUT", "750ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" || !cfg.CookieSecure || cfg.Currency != "USD" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ResolverCacheSize != 128 || cfg.CatalogTimeout != 750*time.Millisecond || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "short secret", key: "COOKIE_SECRET", value: "short", wantErr: "COOKIE_SECRET"},
		{name: "empty addr", key: "HTTP_ADDR", value: "", wantErr: "HTTP_ADDR"},
		{name: "cache too large", key: "RESOLVER_CACHE_SIZE", value: "2000000", wantErr: "RESOLVER_CACHE_SIZE"},
		{name: "cache not int", key: "RESOLVER_CACHE_SIZE", value: "lots", wantErr: "RESOLVER_CACHE_SIZE"},
		{name: "zero timeout", key: "CATALOG_TIMEOUT", value: "0s", wantErr: "CATALOG_TIMEOUT"},
		{name: "bad bool", key: "COOKIE_SECURE", value: "maybe", wantErr: "COOKIE_SECURE"},
		{name: "bad currency", key: "STORE_CURRENCY", value: "PESOS", wantErr: "STORE_CURRENCY"},
		{name: "bad level", key: "LOG_LEVEL", value: "loud", wantErr: "LOG_LEVEL"},
		{name: "same cookie names", key: "FLASH_COOKIE_NAME", value: "carnales_cart", wantErr: "must differ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBase(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFromEnv()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("LoadFromEnv() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnvRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("COOKIE_SECRET", testSecret)

	if _, err := LoadFromEnv(); err == nil || !strings.Contains(err.Error(), "DB_DSN") {
		t.Fatalf("LoadFromEnv() error = %v, want DB_DSN error", err)
	}
}
