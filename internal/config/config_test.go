package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, BackendMemory, cfg.EventBus)
	assert.Equal(t, BackendMemory, cfg.Registry)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, 300*time.Second, cfg.Timeouts.StepExecution)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WEFT_HTTP_PORT", "8181")
	t.Setenv("WEFT_EVENT_BUS", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("WEFT_RETRY_MAX", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.HTTPPort)
	assert.Equal(t, BackendRedis, cfg.EventBus)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid http port", map[string]string{"WEFT_HTTP_PORT": "0"}},
		{"invalid backend", map[string]string{"WEFT_EVENT_BUS": "kafka"}},
		{"redis backend without addr", map[string]string{"WEFT_REGISTRY": "redis", "REDIS_ADDR": ""}},
		{"negative retries", map[string]string{"WEFT_RETRY_MAX": "-1"}},
		{"multiplier below one", map[string]string{"WEFT_RETRY_MULTIPLIER": "0.5"}},
		{"unknown log level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestAddrs(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.Equal(t, ":9090", cfg.GetGRPCAddr())
}
