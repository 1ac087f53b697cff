package cms

import (
	"errors"

	"github.com/goliatone/go-cms-modular/internal/logging/gologger"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

var (
	ErrUploadsRootRequired = errors.New("cms: uploads root is required when uploads are enabled")
	ErrCacheServiceMissing = errors.New("cms: cache enabled without a cache service and key serializer")
)

// LoggingConfig configures the go-logger provider backing every service
// logger.
type LoggingConfig = gologger.Config

// Config assembles the module's runtime configuration.
type Config struct {
	// Database backs every repository when set; nil selects the in-memory
	// repositories, which suit tests and previews.
	Database DatabaseConfig
	// Uploads configures the filesystem store behind file and image fields.
	// Disabled uploads reject entry writes that carry binaries.
	Uploads UploadsConfig
	// Cache wraps the bun repositories with read-through caching.
	Cache CacheConfig
	// Logging selects level and format for the shared logger provider.
	Logging LoggingConfig
	// Markdown shapes the directory importer.
	Markdown MarkdownConfig
}

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	DB *bun.DB
}

// UploadsConfig configures stored file naming and serving.
type UploadsConfig struct {
	Enabled bool
	// Root is the directory stored files land under, one subdirectory per
	// module slug.
	Root string
	// BaseURL is the public prefix stored URLs are built from; empty uses
	// the default.
	BaseURL string
}

// CacheConfig wires the repository cache services.
type CacheConfig struct {
	Enabled    bool
	Service    cache.CacheService
	Serializer cache.KeySerializer
}

// MarkdownConfig shapes Markdown imports.
type MarkdownConfig struct {
	// BodyField names the entry field rendered bodies are written to; empty
	// uses the importer default.
	BodyField string
	HardWraps bool
	SafeMode  bool
	// Extensions names goldmark extensions; empty means the GFM defaults.
	Extensions []string
}

// DefaultConfig returns a configuration suitable for local development:
// in-memory persistence, uploads disabled, info-level text logging.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports configuration combinations that cannot boot.
func (c Config) Validate() error {
	if c.Uploads.Enabled && c.Uploads.Root == "" {
		return ErrUploadsRootRequired
	}
	if c.Cache.Enabled && (c.Cache.Service == nil || c.Cache.Serializer == nil) {
		return ErrCacheServiceMissing
	}
	return nil
}
