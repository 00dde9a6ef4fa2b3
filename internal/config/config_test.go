package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vacation-portal/internal/session"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "APP_PORT", "API_BASE_URL", "API_LOGIN_PATH", "API_LOGOUT_PATH",
		"STATS_API_BASE_URL", "HTTP_CLIENT_TIMEOUT", "GUARD_REDIRECT", "LOG_LEVEL",
		"SESSION_PERSISTENCE", "SESSION_STORAGE", "SESSION_DIR", "SESSION_KEY",
		"RABBITMQ_URL", "AMQP_URL", "SESSION_EVENTS_ENABLED", "SESSION_AUDIT_LOG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		check       func(t *testing.T, cfg Config)
		errContains string
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, "http://localhost:3000/api", cfg.APIBaseURL)
				assert.Equal(t, cfg.APIBaseURL, cfg.StatsAPIBaseURL)
				assert.Equal(t, "/users/login", cfg.APILoginPath)
				assert.Equal(t, "/login", cfg.GuardRedirect)
				assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
				assert.Equal(t, session.PersistenceCookie, cfg.Session.Persistence)
				assert.Equal(t, session.DefaultKey, cfg.Session.Key)
				assert.False(t, cfg.Events.Enabled)
			},
		},
		{
			name: "local echo in redis with separate stats api",
			env: map[string]string{
				"SESSION_PERSISTENCE": "localEcho",
				"SESSION_STORAGE":     "redis",
				"STATS_API_BASE_URL":  "http://stats:4000/api",
				"API_LOGIN_PATH":      "/auth/login",
				"HTTP_CLIENT_TIMEOUT": "3s",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, session.PersistenceLocalEcho, cfg.Session.Persistence)
				assert.Equal(t, StorageRedis, cfg.Session.Storage)
				assert.Equal(t, "http://stats:4000/api", cfg.StatsAPIBaseURL)
				assert.Equal(t, "/auth/login", cfg.APILoginPath)
				assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
			},
		},
		{
			name: "amqp url enables events",
			env:  map[string]string{"AMQP_URL": "amqp://u:p@mq:5672/"},
			check: func(t *testing.T, cfg Config) {
				assert.True(t, cfg.Events.Enabled)
				assert.Equal(t, "amqp://u:p@mq:5672/", cfg.Events.URL)
			},
		},
		{
			name:        "unknown persistence",
			env:         map[string]string{"SESSION_PERSISTENCE": "indexeddb"},
			errContains: "unknown session persistence",
		},
		{
			name:        "unknown storage",
			env:         map[string]string{"SESSION_STORAGE": "s3"},
			errContains: "SESSION_STORAGE",
		},
		{
			name:        "relative api url",
			env:         map[string]string{"API_BASE_URL": "/api"},
			errContains: "API_BASE_URL must be an absolute URL",
		},
		{
			name:        "bad log level",
			env:         map[string]string{"LOG_LEVEL": "verbose"},
			errContains: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, time.Minute, cfg.RefillInterval)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_ENABLED", "off")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadRedisConfig()
	assert.Equal(t, "cache:6380", cfg.Addr)
	assert.Equal(t, 2, cfg.DB)
}
