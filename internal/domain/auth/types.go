package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID string // stable user identifier (the "sub" claim)
	Name   string
	Email  string
}

// Tokens is the OAuth token set held for a signed-in user.
// A zero Expiry means the expiry is unknown.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// staleExpiry is written by MarkStale. It is the Unix epoch rather than
// the zero time so it still counts as a known expiry.
var staleExpiry = time.Unix(0, 0).UTC() //nolint:gochecknoglobals // immutable sentinel

// HasExpiry reports whether the token set carries a known expiry.
func (t Tokens) HasExpiry() bool { return !t.Expiry.IsZero() }

// MarkStale returns a copy whose access token will be treated as expired.
func (t Tokens) MarkStale() Tokens {
	t.Expiry = staleExpiry
	return t
}

// Merge returns t updated with a refreshed token set. Providers may omit
// the refresh and ID tokens on refresh; the previous values are kept.
func (t Tokens) Merge(fresh Tokens) Tokens {
	out := fresh
	if out.RefreshToken == "" {
		out.RefreshToken = t.RefreshToken
	}
	if out.IDToken == "" {
		out.IDToken = t.IDToken
	}
	if out.TokenType == "" {
		out.TokenType = t.TokenType
	}
	return out
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Tokens    Tokens    `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its lifetime at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
