package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSessionStore(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	store := NewSessionStore(clk.Now)
	ctx := context.Background()

	sess := domainauth.Session{ID: "s1", Email: "a@example.com", ExpiresAt: clk.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	clk.Add(2 * time.Hour)
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Equal(t, 0, store.Len(), "expired session removed on read")

	assert.Error(t, store.Save(ctx, domainauth.Session{}))
	assert.Error(t, store.Save(ctx, domainauth.Session{ID: "old", ExpiresAt: clk.Now().Add(-time.Second)}))

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s2", ExpiresAt: clk.Now().Add(time.Hour)}))
	require.NoError(t, store.Delete(ctx, "s2"))
	_, err = store.Get(ctx, "s2")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestRateCounter(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	c := NewRateCounter(clk.Now)
	ctx := context.Background()

	n, reset, err := c.Incr(ctx, "ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, time.Minute, reset)

	clk.Add(20 * time.Second)
	n, reset, _ = c.Incr(ctx, "ip", time.Minute)
	assert.Equal(t, 2, n)
	assert.Equal(t, 40*time.Second, reset)

	clk.Add(40 * time.Second)
	n, reset, _ = c.Incr(ctx, "ip", time.Minute)
	assert.Equal(t, 1, n, "new window")
	assert.Equal(t, time.Minute, reset)
}

func TestRateCounter_Concurrent(t *testing.T) {
	c := NewRateCounter(nil)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = c.Incr(context.Background(), "ip", time.Hour)
		}()
	}
	wg.Wait()

	n, _, err := c.Incr(context.Background(), "ip", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 51, n)
}
