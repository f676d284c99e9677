package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/gregroclawski/DataShatter/pkg/config"
)

// defaultJWTSecret is the development-only signing secret. Non-development
// environments must override it.
const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the Ninja Master API server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8001"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"ninja"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"ninja_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"ninja_master"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis (leaderboard cache)
	RedisHost           string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort           int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass           string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
	LeaderboardCacheTTL int    `env:"LEADERBOARD_CACHE_TTL_SECONDS" envDefault:"30"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT access tokens
	JWTSecret      string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTTokenExpiry string `env:"JWT_TOKEN_EXPIRY" envDefault:"168h"`

	// Cookie sessions
	SessionTTL             string `env:"SESSION_TTL" envDefault:"168h"`
	SessionCleanupInterval string `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`

	// OAuth session exchange proxy
	OAuthProxyURL        string `env:"OAUTH_PROXY_URL" envDefault:"https://demobackend.emergentagent.com/auth/v1/env/oauth"`
	OAuthProxyTimeoutSec int    `env:"OAUTH_PROXY_TIMEOUT_SECONDS" envDefault:"10"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OAuthProxyURL == "" {
		return fmt.Errorf("OAUTH_PROXY_URL is required")
	}
	if _, err := time.ParseDuration(c.JWTTokenExpiry); err != nil {
		return fmt.Errorf("invalid JWT_TOKEN_EXPIRY: %w", err)
	}
	if _, err := time.ParseDuration(c.SessionTTL); err != nil {
		return fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if _, err := time.ParseDuration(c.SessionCleanupInterval); err != nil {
		return fmt.Errorf("invalid SESSION_CLEANUP_INTERVAL: %w", err)
	}
	if c.LeaderboardCacheTTL <= 0 {
		return fmt.Errorf("LEADERBOARD_CACHE_TTL_SECONDS must be > 0, got %d", c.LeaderboardCacheTTL)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}

	return nil
}

// TokenExpiry returns the parsed JWT token lifetime.
func (c *Config) TokenExpiry() time.Duration {
	d, _ := time.ParseDuration(c.JWTTokenExpiry)
	return d
}

// SessionLifetime returns the parsed cookie session lifetime.
func (c *Config) SessionLifetime() time.Duration {
	d, _ := time.ParseDuration(c.SessionTTL)
	return d
}

// CleanupInterval returns the parsed interval between expired-session sweeps.
func (c *Config) CleanupInterval() time.Duration {
	d, _ := time.ParseDuration(c.SessionCleanupInterval)
	return d
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
