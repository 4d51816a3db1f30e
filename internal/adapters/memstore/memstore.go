// Package memstore provides in-process session and rate counter stores
// used when Redis is disabled. State is lost on restart and is not shared
// between replicas.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// SessionStore keeps sessions in a map guarded by a mutex.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
	now      func() time.Time
}

// NewSessionStore creates an empty store. now may be nil.
func NewSessionStore(now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{sessions: make(map[string]domainauth.Session), now: now}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Expired(s.now()) {
		return errors.New("session is expired")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

type window struct {
	count int
	reset time.Time
}

// RateCounter counts hits per key in fixed windows.
type RateCounter struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

// NewRateCounter creates an empty counter. now may be nil.
func NewRateCounter(now func() time.Time) *RateCounter {
	if now == nil {
		now = time.Now
	}
	return &RateCounter{windows: make(map[string]window), now: now}
}

// Incr records a hit for key and returns the count in the current window
// and the time until it resets.
func (c *RateCounter) Incr(_ context.Context, key string, d time.Duration) (int, time.Duration, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.windows[key]
	if !ok || !now.Before(w.reset) {
		w = window{reset: now.Add(d)}
		c.sweep(now)
	}
	w.count++
	c.windows[key] = w
	return w.count, w.reset.Sub(now), nil
}

// sweep drops expired windows. Called with mu held.
func (c *RateCounter) sweep(now time.Time) {
	for k, w := range c.windows {
		if !now.Before(w.reset) {
			delete(c.windows, k)
		}
	}
}
