package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is empty")
	ErrInvalidNamespace   = errors.New("ZONE_ID_NAMESPACE must be a UUID")
	ErrInvalidRateLimit   = errors.New("RESOLVE_RATE_LIMIT and RESOLVE_RATE_BURST must be positive")
)

// Config holds everything the server and the zonectl tool read from the environment.
type Config struct {
	// Environment is "development" or "production"; it picks the logger profile.
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	Port        string `env:"PORT" env-default:"5050"`

	Database Database

	// CORSAllowedOrigins is echoed back in Access-Control-Allow-Origin when matched.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://localhost:3000"`

	// ResolveRateLimit is the sustained requests/second allowed on /zones/resolve.
	ResolveRateLimit float64 `env:"RESOLVE_RATE_LIMIT" env-default:"50"`
	ResolveRateBurst int     `env:"RESOLVE_RATE_BURST" env-default:"100"`

	// ZoneCacheTTL bounds how stale the in-memory zone snapshot may get.
	ZoneCacheTTL time.Duration `env:"ZONE_CACHE_TTL" env-default:"5m"`

	// ZoneIDNamespace seeds deterministic zone IDs. Stable forever; changing it re-keys every zone.
	ZoneIDNamespace string `env:"ZONE_ID_NAMESPACE" env-default:"6f1c7d0e-4a53-5b8e-9a36-2f0d6c1b7e41"`

	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Database struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" env-default:"20"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" env-default:"30m"`
	// SlowQuery is the threshold above which gorm logs a query as slow.
	SlowQuery time.Duration `env:"DATABASE_SLOW_QUERY" env-default:"100ms"`
}

// Load reads .env.local when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	if _, err := c.Namespace(); err != nil {
		return err
	}
	if c.ResolveRateLimit <= 0 || c.ResolveRateBurst <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

// Namespace parses ZONE_ID_NAMESPACE, the UUID zone IDs are derived under.
func (c *Config) Namespace() (uuid.UUID, error) {
	ns, err := uuid.Parse(c.ZoneIDNamespace)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidNamespace, err)
	}
	return ns, nil
}
