package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultCartCookieName    = "carnales_cart"
	defaultFlashCookieName   = "carnales_flash"
	defaultCurrency          = "MXN"
	defaultResolverCacheSize = 4096
	maximumResolverCacheSize = 1_000_000
	defaultCatalogTimeout    = 2 * time.Second
	minimumCookieSecretBytes = 32
)

// Config captures startup settings for the web entrypoint.
type Config struct {
	HTTPAddr          string
	DBDSN             string
	CookieSecret      []byte
	CookieSecure      bool
	CartCookieName    string
	FlashCookieName   string
	Currency          string
	ResolverCacheSize int
	CatalogTimeout    time.Duration
	LogLevel          slog.Level
	GinMode           string
}

// LoadFromEnv loads runtime configuration from environment variables.
func LoadFromEnv() (Config, error) {
	addr, err := readRequiredOrDefault("HTTP_ADDR", defaultHTTPAddr)
	if err != nil {
		return Config{}, err
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		return Config{}, fmt.Errorf("DB_DSN is required")
	}

	secret := os.Getenv("COOKIE_SECRET")
	if len(secret) < minimumCookieSecretBytes {
		return Config{}, fmt.Errorf("COOKIE_SECRET must be at least %d bytes", minimumCookieSecretBytes)
	}

	secure, err := readBool("COOKIE_SECURE", false)
	if err != nil {
		return Config{}, err
	}

	cartCookie, err := readRequiredOrDefault("CART_COOKIE_NAME", defaultCartCookieName)
	if err != nil {
		return Config{}, err
	}
	flashCookie, err := readRequiredOrDefault("FLASH_COOKIE_NAME", defaultFlashCookieName)
	if err != nil {
		return Config{}, err
	}
	if cartCookie == flashCookie {
		return Config{}, fmt.Errorf("CART_COOKIE_NAME and FLASH_COOKIE_NAME must differ")
	}

	currency, err := readRequiredOrDefault("STORE_CURRENCY", defaultCurrency)
	if err != nil {
		return Config{}, err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Config{}, fmt.Errorf("STORE_CURRENCY must be a 3-letter ISO code")
	}

	cacheSize, err := readInt("RESOLVER_CACHE_SIZE", defaultResolverCacheSize, 1, maximumResolverCacheSize)
	if err != nil {
		return Config{}, err
	}

	catalogTimeout, err := readDuration("CATALOG_TIMEOUT", defaultCatalogTimeout)
	if err != nil {
		return Config{}, err
	}

	level, err := readLevel("LOG_LEVEL", slog.LevelInfo)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPAddr:          addr,
		DBDSN:             dsn,
		CookieSecret:      []byte(secret),
		CookieSecure:      secure,
		CartCookieName:    cartCookie,
		FlashCookieName:   flashCookie,
		Currency:          currency,
		ResolverCacheSize: cacheSize,
		CatalogTimeout:    catalogTimeout,
		LogLevel:          level,
		GinMode:           os.Getenv("GIN_MODE"),
	}, nil
}

func readRequiredOrDefault(key, fallback string) (string, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	if raw == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}

	return raw, nil
}

func readInt(key string, fallback, min, max int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}

	return parsed, nil
}

func readBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return parsed, nil
}

func readDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func readLevel(key string, fallback slog.Level) (slog.Level, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("%s must be one of debug, info, warn, error: %w", key, err)
	}
	return lvl, nil
}
