package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Backend selects an adapter implementation for a port.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Config holds all configuration for the weft runtime.
type Config struct {
	// Server configuration
	HTTPPort int    `env:"WEFT_HTTP_PORT" envDefault:"8080"`
	GRPCPort int    `env:"WEFT_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Adapter selection
	EventBus Backend `env:"WEFT_EVENT_BUS" envDefault:"memory"`
	Registry Backend `env:"WEFT_REGISTRY" envDefault:"memory"`

	// Redis configuration (used when a redis backend is selected)
	Redis RedisConfig

	// Retry defaults applied to the dispatch unit
	Retry RetryConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`

	// TTL applied to agent registrations so dead agents age out
	AgentTTL time.Duration `env:"REDIS_AGENT_TTL" envDefault:"5m"`
}

// RetryConfig holds the default retry policy for step dispatch.
type RetryConfig struct {
	MaxRetries        int           `env:"WEFT_RETRY_MAX" envDefault:"3"`
	InitialDelay      time.Duration `env:"WEFT_RETRY_INITIAL_DELAY" envDefault:"100ms"`
	MaxDelay          time.Duration `env:"WEFT_RETRY_MAX_DELAY" envDefault:"10s"`
	BackoffMultiplier float64       `env:"WEFT_RETRY_MULTIPLIER" envDefault:"2.0"`
}

// TimeoutConfig holds various timeout configurations.
type TimeoutConfig struct {
	StepExecution       time.Duration `env:"WEFT_TIMEOUT_STEP" envDefault:"300s"`
	Shutdown            time.Duration `env:"WEFT_TIMEOUT_SHUTDOWN" envDefault:"30s"`
	HealthCheckInterval time.Duration `env:"WEFT_HEALTH_CHECK_INTERVAL" envDefault:"30s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}

	if c.EventBus != BackendMemory && c.EventBus != BackendRedis {
		return fmt.Errorf("invalid event bus backend: %s (must be memory or redis)", c.EventBus)
	}
	if c.Registry != BackendMemory && c.Registry != BackendRedis {
		return fmt.Errorf("invalid registry backend: %s (must be memory or redis)", c.Registry)
	}
	if (c.EventBus == BackendRedis || c.Registry == BackendRedis) && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required for redis backends")
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry max must be >= 0, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.BackoffMultiplier < 1 {
		return fmt.Errorf("retry multiplier must be >= 1, got %g", c.Retry.BackoffMultiplier)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address.
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}
