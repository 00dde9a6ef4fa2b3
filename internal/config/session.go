package config

import (
	"fmt"
	"strings"

	"github.com/iliyamo/vacation-portal/internal/session"
)

// Session storage backends for localEcho persistence.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

// SessionConfig selects how the authenticated principal survives restarts.
// With cookie persistence nothing is written locally and the upstream's
// session cookie is the only state; with localEcho the principal is stored
// under Key in either a directory or Redis.
type SessionConfig struct {
	Persistence session.Persistence
	Storage     string
	Dir         string
	Key         string
	RedisPrefix string
}

// LoadSessionConfig reads SESSION_PERSISTENCE, SESSION_STORAGE,
// SESSION_DIR, SESSION_KEY and SESSION_REDIS_PREFIX.
func LoadSessionConfig() (SessionConfig, error) {
	p, err := session.ParsePersistence(getenv("SESSION_PERSISTENCE", string(session.PersistenceCookie)))
	if err != nil {
		return SessionConfig{}, err
	}
	cfg := SessionConfig{
		Persistence: p,
		Storage:     strings.ToLower(getenv("SESSION_STORAGE", StorageFile)),
		Dir:         getenv("SESSION_DIR", ".session"),
		Key:         getenv("SESSION_KEY", session.DefaultKey),
		RedisPrefix: getenv("SESSION_REDIS_PREFIX", "portal:session"),
	}
	switch cfg.Storage {
	case StorageFile, StorageRedis:
	default:
		return SessionConfig{}, fmt.Errorf("SESSION_STORAGE must be %q or %q, got %q", StorageFile, StorageRedis, cfg.Storage)
	}
	return cfg, nil
}
