package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (ports.BeginResult, error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, domainauth.Tokens, error)
	RefreshFunc  func(ctx context.Context, refreshToken string) (domainauth.Tokens, error)

	// Deterministic values for predictable testing
	AuthURL       string
	EndSessionURL string
	DefaultUser   domainauth.Identity

	callCount    atomic.Int64
	refreshCount atomic.Int64
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			UserID: "mock-user-1",
			Name:   "Mock User",
			Email:  "mock.user@example.com",
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (ports.BeginResult, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	n := m.callCount.Add(1)
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	return ports.BeginResult{
		AuthURL:      authURL,
		State:        fmt.Sprintf("state-%d", n),
		Nonce:        fmt.Sprintf("nonce-%d", n),
		CodeVerifier: fmt.Sprintf("verifier-%d", n),
	}, nil
}

func (m *MockAuthProvider) Exchange(
	ctx context.Context,
	in ports.ExchangeInput,
) (domainauth.Identity, domainauth.Tokens, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	if in.Code == "" {
		return domainauth.Identity{}, domainauth.Tokens{}, errors.New("missing code")
	}

	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{UserID: "mock-user-1", Name: "Mock User", Email: "mock.user@example.com"}
	}
	return user, domainauth.Tokens{
		AccessToken:  "access-" + in.Code,
		RefreshToken: "refresh-" + in.Code,
		IDToken:      "id-" + in.Code,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}, nil
}

func (m *MockAuthProvider) Refresh(ctx context.Context, refreshToken string) (domainauth.Tokens, error) {
	n := m.refreshCount.Add(1)
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return domainauth.Tokens{
		AccessToken: fmt.Sprintf("refreshed-%d", n),
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}, nil
}

func (m *MockAuthProvider) LogoutURL(idTokenHint, postLogoutRedirect string) string {
	if m.EndSessionURL == "" {
		return ""
	}
	return m.EndSessionURL + "?id_token_hint=" + idTokenHint + "&post_logout_redirect_uri=" + postLogoutRedirect
}

// RefreshCalls returns how many times Refresh ran.
func (m *MockAuthProvider) RefreshCalls() int64 { return m.refreshCount.Load() }

// MemorySessionStore is an in-memory session store for unit tests.
// SaveErr and GetErr, when set, are returned instead of touching the map.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
	saves    int

	SaveErr error
	GetErr  error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	m.saves++
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if id == "" || !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Saves returns how many successful Save calls were made.
func (m *MemorySessionStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
