package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindow increments the counter and starts its window on first hit.
// Returns the count and the remaining TTL in milliseconds.
var incrWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RateCounter counts hits per key in fixed windows.
type RateCounter struct {
	client redis.UniversalClient
	prefix string
}

// NewRateCounter creates a counter whose keys are prefixed with prefix.
func NewRateCounter(client redis.UniversalClient, prefix string) *RateCounter {
	return &RateCounter{client: client, prefix: prefix}
}

// Incr records a hit for key and returns the hit count within the current
// window and the time until the window resets.
func (c *RateCounter) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	res, err := incrWindow.Run(ctx, c.client, []string{c.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("rate counter: %w", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("rate counter: unexpected reply %v", res)
	}
	return int(res[0]), time.Duration(res[1]) * time.Millisecond, nil
}
