package testutil

import (
	"context"
	"testing"
	"time"
)

func TestTestDBURL(t *testing.T) {
	t.Setenv("TEST_DB_URL", "  postgres://u:p@localhost:5432/claims  ")
	if got := TestDBURL(); got != "postgres://u:p@localhost:5432/claims" {
		t.Errorf("expected trimmed url, got %q", got)
	}

	t.Setenv("TEST_DB_URL", "")
	if got := TestDBURL(); got != "" {
		t.Errorf("expected empty url, got %q", got)
	}
}

func TestSetupTestRedis_UsesMiniredis(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "")
	client := SetupTestRedis(t)

	ctx := context.Background()
	if err := client.Set(ctx, "k", "v", time.Minute).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := client.Get(ctx, "k").Val(); got != "v" {
		t.Errorf("expected v, got %q", got)
	}
}

func TestClaims(t *testing.T) {
	claims := Claims(5, 3)
	if len(claims) != 3 || claims[0].ID != 5 || claims[2].ID != 7 {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if sparse := NewClaim(9).Sparse().Build(); sparse.Client != nil || sparse.ID != 9 {
		t.Fatalf("unexpected sparse claim %+v", sparse)
	}
}
