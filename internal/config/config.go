// Package config loads catalog service configuration from an optional file
// and CATALOG_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sternrassler/catalog-service/pkg/logging"
	"github.com/Sternrassler/catalog-service/pkg/storage/sqlstore"
)

// EnvPrefix is the environment variable prefix. CATALOG_DATABASE_DSN maps to database.dsn.
const EnvPrefix = "CATALOG"

// Config is the complete service configuration.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Query     QueryConfig     `mapstructure:"query"`
	Warm      WarmConfig      `mapstructure:"warm"`
	Retry     RetryConfig     `mapstructure:"retry"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxopenconns"`
}

// RedisConfig selects the result cache backend. An empty Addr means the
// in-process memory cache is used.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type QueryConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type WarmConfig struct {
	Pages    int `mapstructure:"pages"`
	PageSize int `mapstructure:"pagesize"`
}

type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

// UsesRedis reports whether a Redis cache backend is configured.
func (c *Config) UsesRedis() bool {
	return c.Redis.Addr != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.driver", sqlstore.DriverSQLite)
	v.SetDefault("database.dsn", "file:catalog.db")
	v.SetDefault("database.maxopenconns", 10)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("ratelimit.rps", 50)
	v.SetDefault("ratelimit.burst", 100)
	v.SetDefault("query.timeout", 10*time.Second)
	v.SetDefault("warm.pages", 0)
	v.SetDefault("warm.pagesize", 20)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.backoff", 100*time.Millisecond)
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply. Environment variables take precedence
// over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	switch c.Database.Driver {
	case sqlstore.DriverSQLite, sqlstore.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must be >= 0, got %d", c.Redis.DB))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.rps must be positive, got %v", c.RateLimit.RPS))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, fmt.Errorf("ratelimit.burst must be positive, got %d", c.RateLimit.Burst))
	}
	if c.Query.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("query.timeout must be positive, got %s", c.Query.Timeout))
	}
	if c.Warm.Pages < 0 {
		errs = append(errs, fmt.Errorf("warm.pages must be >= 0, got %d", c.Warm.Pages))
	}
	if c.Warm.PageSize < 1 {
		errs = append(errs, fmt.Errorf("warm.pagesize must be >= 1, got %d", c.Warm.PageSize))
	}
	if c.Retry.Attempts < 1 {
		errs = append(errs, fmt.Errorf("retry.attempts must be >= 1, got %d", c.Retry.Attempts))
	}
	if c.Retry.Backoff < 0 {
		errs = append(errs, fmt.Errorf("retry.backoff must be >= 0, got %s", c.Retry.Backoff))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
