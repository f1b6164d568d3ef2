package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Base URL selection mirrors the build-time switch of the original
	// client: the hosted backend in production, localhost in development.
	ProdBaseURL string `env:"PROD_BASE_URL, default=https://ecommerce-backend-ys07.onrender.com"`
	DevBaseURL  string `env:"DEV_BASE_URL,  default=http://localhost:8080"`

	// HTTPTimeout bounds every request; a stuck call must eventually fail.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=5s"`

	Storage StorageConfig
	Redis   RedisConfig
	Mock    MockConfig
}

// StorageConfig selects the durable session storage backend.
type StorageConfig struct {
	// Backend is "file" or "redis".
	Backend string `env:"STORAGE,    default=file"`
	// Path is the file backend's location. Empty means a per-user default
	// under the OS config directory.
	Path string `env:"STORE_PATH"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// MockConfig configures the local development backend.
type MockConfig struct {
	Port      string `env:"PORT,       default=8080"`
	JWTSecret string `env:"JWT_SECRET, default=dev-secret"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// BaseURL returns the backend target for the active profile.
func (c *Config) BaseURL() string {
	if c.IsProduction() {
		return c.ProdBaseURL
	}
	return c.DevBaseURL
}
