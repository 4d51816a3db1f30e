package ports

import "context"

// TokenSource yields the bearer token for outbound API calls made on
// behalf of the current user.
type TokenSource interface {
	// Token returns a usable access token, refreshing it when needed.
	Token(ctx context.Context) (string, error)
	// MarkStale forces the next Token call to refresh. Called after the
	// API rejects a token.
	MarkStale(ctx context.Context) error
}

type tokenSourceKey struct{}

// WithTokenSource attaches ts to ctx for the claims API client.
func WithTokenSource(ctx context.Context, ts TokenSource) context.Context {
	return context.WithValue(ctx, tokenSourceKey{}, ts)
}

// TokenSourceFrom returns the TokenSource attached to ctx, if any.
func TokenSourceFrom(ctx context.Context) (TokenSource, bool) {
	ts, ok := ctx.Value(tokenSourceKey{}).(TokenSource)
	return ts, ok && ts != nil
}
