package httpx

import (
	"context"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
)

type sessionCtxKey struct{}

// WithSession attaches the signed-in user's session to ctx. A nil
// session leaves ctx unchanged.
func WithSession(ctx context.Context, s *domainauth.Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFrom returns the session attached by WithSession, or nil.
func SessionFrom(ctx context.Context) *domainauth.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*domainauth.Session)
	return s
}
