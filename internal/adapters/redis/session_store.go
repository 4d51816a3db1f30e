package redis

// Package redis provides Redis-based adapters for sessions and rate limiting.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ministryofjustice/claims-ui/internal/cryptoutil"
	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// DefaultSessionPrefix namespaces session keys.
const DefaultSessionPrefix = "caa:"

// SessionStore is a Redis-based session store for production use.
// It handles TTL semantics automatically based on session ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	// sealer encrypts records when set. Plain JSON records written
	// before a key was configured are still read.
	sealer cryptoutil.Sealer
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, DefaultSessionPrefix)
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

// WithSealer returns the store with record encryption enabled.
func (s *SessionStore) WithSealer(sealer cryptoutil.Sealer) *SessionStore {
	s.sealer = sealer
	return s
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		// Session is already expired, don't save it
		return errors.New("session is expired")
	}

	if s.sealer != nil {
		if data, err = s.sealer.Seal(data); err != nil {
			return fmt.Errorf("seal session: %w", err)
		}
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	if cryptoutil.IsSealed(data) {
		if s.sealer == nil {
			return domainauth.Session{}, errors.New("session record is encrypted but no key is configured")
		}
		if data, err = s.sealer.Open(data); err != nil {
			return domainauth.Session{}, fmt.Errorf("open session: %w", err)
		}
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	if sess.Expired(time.Now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// SessionInfo summarises a stored session for the admin CLI.
type SessionInfo struct {
	ID     string
	UserID string
	Email  string
	TTL    time.Duration
}

// List scans all session keys under the prefix.
func (s *SessionStore) List(ctx context.Context) ([]SessionInfo, error) {
	var out []SessionInfo
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id := key[len(s.prefix):]
		sess, err := s.Get(ctx, id)
		if errors.Is(err, ports.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		ttl, err := s.client.TTL(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("redis ttl: %w", err)
		}
		out = append(out, SessionInfo{ID: id, UserID: sess.UserID, Email: sess.Email, TTL: ttl})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return out, nil
}

// Purge deletes every session under the prefix and returns how many were removed.
func (s *SessionStore) Purge(ctx context.Context) (int, error) {
	var n int
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		deleted, err := s.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return n, fmt.Errorf("redis del: %w", err)
		}
		n += int(deleted)
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("redis scan: %w", err)
	}
	return n, nil
}
