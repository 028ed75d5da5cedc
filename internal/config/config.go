package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/toml"
	"github.com/gookit/config/v2/yaml"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteURL = "file:todos.sqlite"
)

// Config holds application configuration. Built once at startup and passed to the components that need it.
type Config struct {
	HTTPPort        string   `config:"http_port"`
	DBDriver        string   `config:"db_driver"`
	DatabaseURL     string   `config:"database_url"`
	DBPoolSize      int      `config:"db_pool_size"`
	LibDir          string   `config:"lib_dir"`
	RedisURL        string   `config:"redis_url"`
	RedisPoolSize   int      `config:"redis_pool_size"`
	CacheTTL        int      `config:"cache_ttl_sec"` // seconds
	KafkaBrokers    []string `config:"kafka_brokers"`
	KafkaTopic      string   `config:"kafka_topic"`
	KafkaPartitions int      `config:"kafka_partitions"`
	LogLevel        string   `config:"log_level"`
	LogFormat       string   `config:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPPort:        "8080",
		DBDriver:        DriverSQLite,
		DBPoolSize:      10,
		LibDir:          "node_modules",
		RedisPoolSize:   10,
		CacheTTL:        300,
		KafkaTopic:      "todo-events",
		KafkaPartitions: 1,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load builds the configuration from defaults, an optional YAML or TOML file at path, then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	if cfg.DatabaseURL == "" && cfg.DBDriver == DriverSQLite {
		cfg.DatabaseURL = defaultSQLiteURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverPostgres, DriverSQLite)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set for driver %s", c.DBDriver)
	}
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is empty")
	}
	if c.DBPoolSize <= 0 {
		return fmt.Errorf("DB_POOL_SIZE must be positive, got %d", c.DBPoolSize)
	}
	return nil
}

// CacheEnabled reports whether the list cache should be used.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// FeedEnabled reports whether change events should be published.
func (c *Config) FeedEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func loadFile(path string, cfg *Config) error {
	c := config.New("todolist")
	c.WithOptions(func(opt *config.Options) {
		opt.ParseEnv = true
		opt.DecoderConfig.TagName = "config"
	})
	c.AddDriver(yaml.Driver)
	c.AddDriver(toml.Driver)

	if err := c.LoadFiles(path); err != nil {
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	if err := c.BindStruct("", cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", cfg.DBDriver))
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBPoolSize = getIntEnv("DB_POOL_SIZE", cfg.DBPoolSize)
	cfg.LibDir = getEnv("LIB_DIR", cfg.LibDir)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RedisPoolSize = getIntEnv("REDIS_POOL_SIZE", cfg.RedisPoolSize)
	cfg.CacheTTL = getIntEnv("CACHE_TTL_SEC", cfg.CacheTTL)
	cfg.KafkaBrokers = getSliceEnv("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = getEnv("KAFKA_TODO_TOPIC", cfg.KafkaTopic)
	cfg.KafkaPartitions = getIntEnv("KAFKA_PARTITIONS", cfg.KafkaPartitions)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
