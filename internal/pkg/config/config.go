package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config drives the API process.
type Config struct {
	Port         string        `env:"PORT,          default=8080"`
	Env          string        `env:"ENV,           default=development"`
	JWTSecret    string        `env:"JWT_SECRET"`
	AdminSecret  string        `env:"ADMIN_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=24h"`
	LogLevel     string        `env:"LOG_LEVEL,     default=info"`
	AuditWorkers int           `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=thinkstack"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// PortalConfig drives the client process.
type PortalConfig struct {
	APIURL   string        `env:"PORTAL_API_URL, default=http://localhost:8080"`
	Timeout  time.Duration `env:"PORTAL_TIMEOUT, default=10s"`
	LogLevel string        `env:"LOG_LEVEL,      default=warn"`
	Pretty   bool          `env:"LOG_PRETTY,     default=true"`
}

// IsProduction reports whether the API runs with production hardening
// (secure cookies, JSON logs, mandatory secrets).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings the API cannot safely start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWTSecret = "dev-only-secret"
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// Load reads API configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return &cfg
}

// LoadPortal reads client configuration from environment variables.
func LoadPortal() (*PortalConfig, error) {
	var cfg PortalConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: load portal configuration: %w", err)
	}
	return &cfg, nil
}
