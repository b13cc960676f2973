// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every service knob. Values come from an optional config
// file plus RENTCRAWL_-prefixed environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls the health/metrics HTTP endpoint.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig holds run defaults: which sources, which cities, and the
// per-run item cap (0 = unlimited). Cities stands in for the full national
// catalog and can be overridden per run.
type CrawlerConfig struct {
	SourcesDir string   `mapstructure:"sources_dir"`
	Sources    []string `mapstructure:"sources"`
	Cities     []string `mapstructure:"cities"`
	MaxItems   int      `mapstructure:"max_items"`
}

// FetcherConfig governs politeness and transport behavior.
type FetcherConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	AcceptLanguage string `mapstructure:"accept_language"`
	DelayMs        int    `mapstructure:"delay_ms"`
	RandomizeDelay bool   `mapstructure:"randomize_delay"`
	Concurrency    int    `mapstructure:"concurrency"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RespectRobots  bool   `mapstructure:"respect_robots"`
}

// RateLimitConfig adds a hard per-domain request-rate ceiling on top of
// the collector's politeness delay.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend         string `mapstructure:"backend"` // mongo, postgres or memory
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
	PostgresDSN     string `mapstructure:"postgres_dsn"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTCRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawler.sources_dir", "config/sources")
	v.SetDefault("crawler.sources", []string{"pararius"})
	v.SetDefault("crawler.cities", []string{
		"Amsterdam", "Rotterdam", "Den Haag", "Utrecht", "Eindhoven",
		"Groningen", "Tilburg", "Almere", "Breda", "Nijmegen",
	})
	v.SetDefault("crawler.max_items", 0)
	v.SetDefault("fetcher.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) "+
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36")
	v.SetDefault("fetcher.accept_language", "nl-NL,nl;q=0.8,en-US;q=0.5,en;q=0.3")
	v.SetDefault("fetcher.delay_ms", 750)
	v.SetDefault("fetcher.randomize_delay", true)
	v.SetDefault("fetcher.concurrency", 8)
	v.SetDefault("fetcher.timeout_seconds", 15)
	v.SetDefault("fetcher.respect_robots", true)
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", 2)
	v.SetDefault("rate_limit.burst", 1)
	v.SetDefault("store.backend", "mongo")
	v.SetDefault("store.mongo_database", "fyxed")
	v.SetDefault("store.mongo_collection", "properties")
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if len(c.Crawler.Sources) == 0 {
		return fmt.Errorf("crawler.sources must not be empty")
	}
	if c.Fetcher.Concurrency <= 0 {
		return fmt.Errorf("fetcher.concurrency must be > 0")
	}
	if c.Fetcher.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetcher.timeout_seconds must be > 0")
	}
	if c.Crawler.MaxItems < 0 {
		return fmt.Errorf("crawler.max_items must be >= 0")
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps must be > 0 when rate limiting is enabled")
	}
	switch c.Store.Backend {
	case "mongo":
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required for the mongo backend")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	return nil
}

// FetchDelay converts the configured politeness delay into a Duration.
func (c Config) FetchDelay() time.Duration {
	return time.Duration(c.Fetcher.DelayMs) * time.Millisecond
}

// FetchTimeout converts the configured request timeout into a Duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetcher.TimeoutSeconds) * time.Second
}
