// Package config loads catalog-pipeline's configuration from an optional
// YAML file plus environment overrides, and initializes the global zap
// logger, following the teacher lineage's config.Load/config.InitLogger
// split.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Parse   ParseConfig   `yaml:"parse" mapstructure:"parse"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the embedded SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RenderConfig configures the markdown-rendering service client (C6's
// remote collaborator). Key is read through viper's environment binding
// rather than the YAML file, so it never lands in a committed config.
type RenderConfig struct {
	Key     string `yaml:"-" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// FetchConfig configures C6's concurrency bound and per-attempt timeout.
// The retry schedule itself (2s/4s/8s, 3 attempts) is fixed by the
// specification and lives as fetcher's unexported defaultRetrySchedule, not
// here.
type FetchConfig struct {
	MaxConcurrent   int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	AttemptTimeoutS int `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
}

// ParseConfig configures C7's parse loop: the chunk size read per poll and
// the worker pool width for the CPU-bound parse stage.
type ParseConfig struct {
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size"`
	Workers   int `yaml:"workers" mapstructure:"workers"`
}

// CatalogConfig configures discovery: the sitemap URL(s) `init` fetches.
type CatalogConfig struct {
	SitemapURLs []string `yaml:"sitemap_urls" mapstructure:"sitemap_urls"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks required configuration for the fetch-dependent commands
// (scrape/run). process/overview/stats never need the render key.
func (c *Config) Validate(needsRenderKey bool) error {
	if c.Store.Path == "" {
		return eris.New("config: store.path is required")
	}
	if needsRenderKey && c.Render.Key == "" {
		return eris.New("config: " + renderKeyEnvVar + " is not set")
	}
	if c.Fetch.MaxConcurrent < 1 {
		return eris.New("config: fetch.max_concurrent must be >= 1")
	}
	if c.Parse.ChunkSize < 1 {
		return eris.New("config: parse.chunk_size must be >= 1")
	}
	return nil
}

// renderKeyEnvVar is the single documented secret: the fetch-service API
// key. §A.6: "absence aborts fetch commands with exit 2."
const renderKeyEnvVar = "RENDER_API_KEY"

const envPrefix = "CATALOG"

// Load reads configuration from config.yaml (if present, in the current
// directory) and environment overrides under the CATALOG_ prefix, plus the
// bare RENDER_API_KEY secret.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("render.key", renderKeyEnvVar); err != nil {
		return nil, eris.Wrap(err, "config: bind render key env var")
	}

	v.SetDefault("store.path", "catalog.db")
	v.SetDefault("render.base_url", "https://render.internal.example.com/v1")
	v.SetDefault("fetch.max_concurrent", 10)
	v.SetDefault("fetch.attempt_timeout_secs", 30)
	v.SetDefault("parse.chunk_size", 500)
	v.SetDefault("parse.workers", 0) // 0 means runtime.NumCPU()
	v.SetDefault("catalog.sitemap_urls", []string{"https://www.ycombinator.com/sitemap.xml"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
