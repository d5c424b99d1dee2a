package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	for _, k := range []string{"PORT", "BACKEND_URL", "BAGS_MAX_ATTEMPTS", "BAGS_RETRY_DELAY", "LOGIN_ENCODING", "SESSION_BACKEND", "SESSION_TTL", "BACKEND_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.BackendURL)
	assert.Equal(t, 3, cfg.BagsMaxAttempts)
	assert.Equal(t, time.Second, cfg.BagsRetryDelay)
	assert.Equal(t, LoginEncodingForm, cfg.LoginEncoding)
	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BACKEND_URL", "http://api.internal:8000/")
	t.Setenv("BAGS_MAX_ATTEMPTS", "5")
	t.Setenv("BAGS_RETRY_DELAY", "250ms")
	t.Setenv("LOGIN_ENCODING", "JSON")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:8000", cfg.BackendURL)
	assert.Equal(t, 5, cfg.BagsMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.BagsRetryDelay)
	assert.Equal(t, LoginEncodingJSON, cfg.LoginEncoding)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric port", key: "PORT", value: "http"},
		{name: "zero attempts", key: "BAGS_MAX_ATTEMPTS", value: "0"},
		{name: "bad duration", key: "BAGS_RETRY_DELAY", value: "soon"},
		{name: "unknown encoding", key: "LOGIN_ENCODING", value: "xml"},
		{name: "unknown session backend", key: "SESSION_BACKEND", value: "memcached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "production")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPostgresBackendNeedsDSN(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
