package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RedisConfig contains Redis configuration. Either URL is set (local
// development) or Host/Port/Username/AuthToken describe a TLS endpoint
// such as ElastiCache.
type RedisConfig struct {
	// Disabled switches sessions and rate limiting to in-memory stores.
	Disabled bool `env:"DISABLE_REDIS" envDefault:"false"`

	URL       string `env:"REDIS_URL"`
	Host      string `env:"REDIS_HOST"       envDefault:"localhost"`
	Port      int    `env:"REDIS_PORT"       envDefault:"6379"`
	Username  string `env:"REDIS_USERNAME"   envDefault:"default"`
	AuthToken string `env:"REDIS_AUTH_TOKEN"`
	DB        int    `env:"REDIS_DB"         envDefault:"0"`
	// TLS applies to the host mode only; URL mode follows the URL scheme.
	TLS bool `env:"REDIS_TLS" envDefault:"true"`

	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
}

// Sanitize trims connection values.
func (r *RedisConfig) Sanitize() {
	r.URL = strings.TrimSpace(r.URL)
	r.Host = strings.TrimSpace(r.Host)
	if r.Port <= 0 {
		r.Port = 6379
	}
	if r.DialTimeout <= 0 {
		r.DialTimeout = 5 * time.Second
	}
}

// Validate requires an auth token in host mode.
func (r *RedisConfig) Validate() error {
	if r.Disabled || r.URL != "" {
		return nil
	}
	if r.AuthToken == "" {
		return errors.New("REDIS_AUTH_TOKEN is required when REDIS_URL is not set")
	}
	return nil
}

// SessionConfig controls the session cookie and its server-side record.
type SessionConfig struct {
	Name   string        `env:"SESSION_NAME"   envDefault:"session_id"`
	Prefix string        `env:"SESSION_PREFIX" envDefault:"caa:"`
	TTL    time.Duration `env:"SESSION_TTL"    envDefault:"3h"`
	// EncryptionKey is a base64 encoded 32 byte key. When set, session
	// records in Redis are encrypted with AES-256-GCM.
	EncryptionKey string `env:"SESSION_ENCRYPTION_KEY"`
}

// Sanitize restores defaults for blank values.
func (s *SessionConfig) Sanitize() {
	if s.Name = strings.TrimSpace(s.Name); s.Name == "" {
		s.Name = "session_id"
	}
	if s.TTL <= 0 {
		s.TTL = 3 * time.Hour
	}
	s.EncryptionKey = strings.TrimSpace(s.EncryptionKey)
}

// sessionKeySize is the AES-256 key length.
const sessionKeySize = 32

// Key decodes EncryptionKey. It returns nil when no key is set.
func (s *SessionConfig) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil //nolint:nilnil // encryption disabled
	}
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY must be base64: %w", err)
	}
	if len(key) != sessionKeySize {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY must decode to %d bytes, got %d", sessionKeySize, len(key))
	}
	return key, nil
}

// Validate checks the encryption key.
func (s *SessionConfig) Validate() error {
	_, err := s.Key()
	return err
}
