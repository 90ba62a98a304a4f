package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"

	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"

	DefaultDatabaseURL     = "mongodb://localhost/blogging-app"
	DefaultTestDatabaseURL = "mongodb://localhost/test-blogging-app"
	DefaultPort            = 8080
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// store
	StoreBackend    string `toml:"store_backend"`
	DatabaseURL     string `toml:"database_url"`
	DatabaseName    string `toml:"database_name"`
	StoreTimeoutSec int    `toml:"store_timeout_sec"`

	// cache
	CacheBackend   string `toml:"cache_backend"`
	CacheTTLSec    int    `toml:"cache_ttl_sec"`
	MemoryCacheMiB int    `toml:"memory_cache_mib"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// write routes rate limit, 0 disables it
	WriteRateLimitPerMin int `toml:"write_rate_limit_per_min"`

	AllowedOrigins []string `toml:"allowed_origins"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
	Test        *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "test", "testing":
		cfg = t.Test
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path, picks the section for env and applies
// the environment variable overrides on top of it. A .env file next to the
// process working dir is loaded first, when present.
func Load(env, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("load .env file: %s", err)
	}

	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsTest() bool {
	return strings.HasPrefix(strings.ToLower(c.Environment), "test")
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	dbURLKey := "DATABASE_URL"
	if c.IsTest() {
		dbURLKey = "TEST_DATABASE_URL"
	}
	if v, ok := lookup(dbURLKey); ok && v != "" {
		c.DatabaseURL = v
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT env var [%s]: %w", v, err)
		}
		c.Port = port
	}

	if v, ok := lookup("REDIS_HOST"); ok && v != "" {
		c.RedisHost = v
	}
	if v, ok := lookup("REDIS_PORT"); ok && v != "" {
		c.RedisPort = v
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = StoreMongo
	}
	if c.DatabaseURL == "" && c.StoreBackend == StoreMongo {
		if c.IsTest() {
			c.DatabaseURL = DefaultTestDatabaseURL
		} else {
			c.DatabaseURL = DefaultDatabaseURL
		}
	}
	if c.CacheBackend == "" {
		c.CacheBackend = CacheNone
	}
	if c.CacheTTLSec == 0 {
		c.CacheTTLSec = 300
	}
	if c.MemoryCacheMiB == 0 {
		c.MemoryCacheMiB = 32
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.StoreBackend, validation.Required, validation.In(StoreMongo, StorePostgres)),
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.CacheBackend, validation.In(CacheRedis, CacheMemory, CacheNone)),
		validation.Field(&c.CacheTTLSec, validation.Required, validation.Min(1)),
		validation.Field(&c.StoreTimeoutSec, validation.Min(0)),
		validation.Field(&c.WriteRateLimitPerMin, validation.Min(0)),
	)
}
