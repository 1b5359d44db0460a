package unit

import (
	"math"
	"time"
)

// Config holds per-unit execution settings.
type Config struct {
	// TracingEnabled turns on debug logging of every execution.
	TracingEnabled bool
	// MetricsEnabled controls whether executions update the metrics slot.
	MetricsEnabled bool
	// SafetyChecks enables argument validation on composed operations.
	SafetyChecks bool
	// Timeout bounds a single execution; zero means no limit. On expiry
	// the in-flight transformation is abandoned, not forcibly stopped.
	Timeout time.Duration
	// Retry configures re-attempts when the unit is wrapped by
	// compose.Retry.
	Retry *RetryConfig
	// Settings carries free-form settings read via the Setting helper.
	Settings map[string]interface{}
}

// DefaultConfig returns the settings a bare unit runs with.
func DefaultConfig() Config {
	return Config{
		MetricsEnabled: true,
		SafetyChecks:   true,
	}
}

// Setting looks up a typed setting, falling back when the key is absent
// or holds a value of a different type.
func Setting[T any](cfg Config, key string, fallback T) T {
	raw, ok := cfg.Settings[key]
	if !ok {
		return fallback
	}
	v, ok := raw.(T)
	if !ok {
		return fallback
	}
	return v
}

// RetryConfig describes the bounded re-attempt policy: the delay grows
// multiplicatively per attempt and is capped at MaxDelay. A multiplier
// of 1 (or less) keeps the delay flat.
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig returns a sensible exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// DelayFor returns the pause before re-attempt number retry (0-based).
func (c RetryConfig) DelayFor(retry int) time.Duration {
	if c.InitialDelay <= 0 {
		return 0
	}
	mult := c.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	d := time.Duration(float64(c.InitialDelay) * math.Pow(mult, float64(retry)))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}
