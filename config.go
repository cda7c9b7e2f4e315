package goBasket

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/MrEthical07/goBasket/cachekeys"
	"github.com/MrEthical07/goBasket/password"
	"github.com/MrEthical07/goBasket/tenant"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// CacheConfig holds Redis connection settings and the key namespace shared
// by the session store and the tenant resolver.
type CacheConfig struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// SessionConfig holds session lifetime settings. The TTL is fixed per write
// and never extended by reads.
type SessionConfig struct {
	TTL time.Duration
}

// Config is the full engine configuration. LoadConfig fills it from the
// environment; zero values fall back to the documented defaults.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Session  SessionConfig
	Tenant   tenant.Config
	Password password.Config

	MetricsEnabled bool
}

// DefaultConfig returns the configuration used when no environment overrides
// are present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns: 25,
			MinConns: 5,
		},
		Cache: CacheConfig{
			Addr:      "localhost:6379",
			Namespace: cachekeys.DefaultNamespace,
		},
		Session: SessionConfig{
			TTL: 30 * time.Minute,
		},
		Tenant: tenant.Config{
			CacheTTL:     5 * time.Minute,
			QueueSize:    256,
			Workers:      2,
			WriteTimeout: 2 * time.Second,
		},
		Password:       password.DefaultConfig(),
		MetricsEnabled: true,
	}
}

// LoadConfig reads configuration from the environment on top of
// [DefaultConfig].
func LoadConfig() Config {
	cfg := DefaultConfig()

	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxConns = int32(getEnvInt("DATABASE_MAX_CONNS", int(cfg.Database.MaxConns)))
	cfg.Database.MinConns = int32(getEnvInt("DATABASE_MIN_CONNS", int(cfg.Database.MinConns)))

	cfg.Cache.Addr = getEnv("REDIS_ADDR", cfg.Cache.Addr)
	cfg.Cache.Password = getEnv("REDIS_PASSWORD", cfg.Cache.Password)
	cfg.Cache.DB = getEnvInt("REDIS_DB", cfg.Cache.DB)
	cfg.Cache.Namespace = getEnv("CACHE_NAMESPACE", cfg.Cache.Namespace)

	cfg.Session.TTL = getEnvDuration("SESSION_TTL", cfg.Session.TTL)

	cfg.Tenant.CacheTTL = getEnvDuration("TENANT_CACHE_TTL", cfg.Tenant.CacheTTL)
	cfg.Tenant.QueueSize = getEnvInt("TENANT_REPOPULATE_QUEUE", cfg.Tenant.QueueSize)
	cfg.Tenant.Workers = getEnvInt("TENANT_REPOPULATE_WORKERS", cfg.Tenant.Workers)
	cfg.Tenant.WriteTimeout = getEnvDuration("TENANT_REPOPULATE_TIMEOUT", cfg.Tenant.WriteTimeout)

	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)

	return cfg
}

// Validate checks the invariants the engine depends on.
func (c Config) Validate() error {
	if c.Session.TTL <= 0 {
		return errors.New("config: session ttl must be positive")
	}
	if c.Tenant.CacheTTL <= 0 {
		return errors.New("config: tenant cache ttl must be positive")
	}
	if c.Tenant.QueueSize <= 0 {
		return errors.New("config: tenant repopulate queue must be positive")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return errors.New("config: database max conns below min conns")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
