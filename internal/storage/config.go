package storage

import (
	"context"
	"fmt"
	"os"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

type Config struct {
	Driver string

	LocalDir       string
	LocalURLPrefix string

	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
}

// ConfigFromEnv reads STORAGE_DRIVER and the matching driver settings.
func ConfigFromEnv() Config {
	return Config{
		Driver:          envOr("STORAGE_DRIVER", DriverLocal),
		LocalDir:        envOr("LOCAL_UPLOAD_DIR", "./storage/uploads"),
		LocalURLPrefix:  envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
		S3Region:        os.Getenv("S3_REGION"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Prefix:        envOr("S3_PREFIX", "catalog"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
	}
}

// ServesLocally reports whether the web server must expose LocalDir itself.
func (c Config) ServesLocally() bool { return c.Driver == DriverLocal }

func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case DriverLocal, "":
		return NewLocal(cfg.LocalDir, cfg.LocalURLPrefix), nil
	case DriverS3:
		if cfg.S3Region == "" || cfg.S3Bucket == "" || cfg.S3PublicBaseURL == "" {
			return nil, fmt.Errorf("storage: S3_REGION, S3_BUCKET and S3_PUBLIC_BASE_URL are required")
		}
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown STORAGE_DRIVER %q", cfg.Driver)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
