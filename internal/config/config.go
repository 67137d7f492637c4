package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"` // current application environment (local, dev, production)
	TelegramAPIToken string    `mapstructure:"-"`   // Telegram API token loaded from environment
	Log              Log       `mapstructure:"log"`
	Bot              Bot       `mapstructure:"bot"`
	Generator        Generator `mapstructure:"generator"`
	Document         Document  `mapstructure:"document"`
	Quiz             Quiz      `mapstructure:"quiz"`
	Storage          Storage   `mapstructure:"storage"`
	DB               DB        `mapstructure:"database"` // database configuration section
	Redis            Redis     `mapstructure:"redis"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"` // debug, info, warn, error; empty keeps the env default
}

// Bot contains Telegram client options.
type Bot struct {
	Debug          bool `mapstructure:"debug"`           // log raw Bot API traffic
	PollingTimeout int  `mapstructure:"polling_timeout"` // long polling timeout in seconds
}

// Generator points at the question generation service.
type Generator struct {
	BaseURL string        `mapstructure:"base_url"` // origin of the /generate endpoint
	Count   int           `mapstructure:"count"`    // questions requested per section
	Timeout time.Duration `mapstructure:"timeout"`  // 0 waits forever
}

// Document limits uploads.
type Document struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Quiz controls answering behaviour.
type Quiz struct {
	LockAnswers bool `mapstructure:"lock_answers"` // forbid changing an answer once given
}

// Storage selects where workspaces live.
type Storage struct {
	Driver        string        `mapstructure:"driver"`         // memory, postgres or redis
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`       // idle workspaces are dropped after this
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // how often idle workspaces are looked for
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Redis contains Redis connection parameters.
type Redis struct {
	URL string `mapstructure:"-"` // redis:// URL loaded from environment
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load("./config")
}

func load(paths ...string) (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("log.level", "")
	v.SetDefault("bot.debug", false)
	v.SetDefault("bot.polling_timeout", 60)
	v.SetDefault("generator.base_url", "http://localhost:8000")
	v.SetDefault("generator.count", 5)
	v.SetDefault("generator.timeout", "0s")
	v.SetDefault("document.max_bytes", 20<<20) // Bot API download limit
	v.SetDefault("quiz.lock_answers", false)
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.idle_ttl", "24h")
	v.SetDefault("storage.sweep_interval", "10m")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("generator.base_url", "GENERATOR_BASE_URL")
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.URL = v.GetString("redis_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres driver", ErrMissingEnvironmentVariables)
		}
	case DriverRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for the redis driver", ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	if c.Generator.BaseURL == "" {
		return errors.New("generator.base_url must not be empty")
	}
	if c.Generator.Count <= 0 {
		return errors.New("generator.count must be positive")
	}

	return nil
}
