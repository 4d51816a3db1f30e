package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/claims-ui/internal/testutil"
)

func TestRateCounter_FixedWindow(t *testing.T) {
	mr, client := testutil.StartMiniRedis(t)
	counter := NewRateCounter(client, "rl:")
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		n, reset, err := counter.Incr(ctx, "10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
		assert.LessOrEqual(t, reset, time.Minute)
		assert.Positive(t, reset)
	}

	other, _, err := counter.Incr(ctx, "10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, other, "keys are independent")

	mr.FastForward(61 * time.Second)
	n, _, err := counter.Incr(ctx, "10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "window resets after expiry")
	assert.True(t, mr.Exists("rl:10.0.0.1"))
}

func TestRateCounter_Error(t *testing.T) {
	mr, client := testutil.StartMiniRedis(t)
	counter := NewRateCounter(client, "rl:")
	mr.Close()

	_, _, err := counter.Incr(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}
