// Package statsd sends metrics to a StatsD/DogStatsD agent over UDP.
package statsd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Tags are DogStatsD tags attached to one metric line.
type Tags map[string]string

// Sink receives metrics. Implementations must be safe for concurrent use.
type Sink interface {
	Count(name string, value int64, tags Tags)
	Timing(name string, d time.Duration, tags Tags)
}

// Discard is a Sink that drops everything.
type Discard struct{}

// Count implements Sink.
func (Discard) Count(string, int64, Tags) {}

// Timing implements Sink.
func (Discard) Timing(string, time.Duration, Tags) {}

// Config describes the agent to send to.
type Config struct {
	Address string
	// Prefix is prepended to every metric name with a dot.
	Prefix string
	// Tags are added to every line; per-metric tags win on conflict.
	Tags   Tags
	Logger *slog.Logger
}

// Client writes one UDP datagram per metric.
type Client struct {
	prefix string
	tags   Tags
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var _ Sink = (*Client)(nil)

// Dial connects a Client to cfg.Address. UDP dialing only resolves the
// address, so an absent agent is not an error here.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	addr := strings.TrimSpace(cfg.Address)
	if addr == "" {
		return nil, errors.New("statsd address is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", addr, err)
	}
	return &Client{
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "."),
		tags:   cleanTags(cfg.Tags),
		logger: logger,
		conn:   conn,
	}, nil
}

// Count adds value to a counter.
func (c *Client) Count(name string, value int64, tags Tags) {
	c.send(name, strconv.FormatInt(value, 10), "c", tags)
}

// Timing records d in milliseconds.
func (c *Client) Timing(name string, d time.Duration, tags Tags) {
	ms := float64(d) / float64(time.Millisecond)
	c.send(name, strconv.FormatFloat(ms, 'f', -1, 64), "ms", tags)
}

// Close releases the socket. Later writes are dropped.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, value, unit string, tags Tags) {
	metric := c.qualify(name)
	if metric == "" {
		return
	}
	line := metric + ":" + value + "|" + unit + encodeTags(c.tags, tags)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.logger.Debug("statsd write failed", "metric", metric, "error", err)
	}
}

func (c *Client) qualify(name string) string {
	n := metricName(name)
	switch {
	case n == "":
		return ""
	case c.prefix == "":
		return n
	default:
		return c.prefix + "." + n
	}
}

// metricName replaces characters the line protocol reserves and drops
// empty path segments.
func metricName(name string) string {
	n := strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", "@", "_").Replace(strings.TrimSpace(name))
	parts := strings.FieldsFunc(n, func(r rune) bool { return r == '.' })
	return strings.Join(parts, ".")
}

func encodeTags(base, extra Tags) string {
	merged := cleanTags(base)
	for k, v := range cleanTags(extra) {
		merged[k] = v
	}
	if len(merged) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(merged))
	for k, v := range merged {
		pairs = append(pairs, k+":"+v)
	}
	sort.Strings(pairs)
	return "|#" + strings.Join(pairs, ",")
}

func cleanTags(tags Tags) Tags {
	out := make(Tags, len(tags))
	for k, v := range tags {
		if k = strings.TrimSpace(k); k != "" {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}
