package bootstrap

import (
	"context"
	"log/slog"

	"github.com/ministryofjustice/claims-ui/config"
	"github.com/ministryofjustice/claims-ui/internal/observability/statsd"
)

// NewMetricsSink dials the StatsD agent when metrics are enabled and
// returns statsd.Discard otherwise. The returned func closes the socket.
//
//nolint:ireturn // discard or UDP client depending on configuration
func NewMetricsSink(ctx context.Context, cfg config.MetricsConfig, logger *slog.Logger) (statsd.Sink, func(), error) {
	if !cfg.Enabled {
		return statsd.Discard{}, func() {}, nil
	}
	tags := statsd.Tags{"service": "claims-ui"}
	if cfg.Env != "" {
		tags["env"] = cfg.Env
	}
	client, err := statsd.Dial(ctx, statsd.Config{
		Address: cfg.Addr,
		Prefix:  cfg.Prefix,
		Tags:    tags,
		Logger:  logger.With("component", "statsd"),
	})
	if err != nil {
		return nil, nil, err
	}
	logger.InfoContext(ctx, "statsd metrics enabled", "addr", cfg.Addr, "prefix", cfg.Prefix)
	return client, func() {
		if cerr := client.Close(); cerr != nil {
			logger.WarnContext(ctx, "close statsd client", "error", cerr)
		}
	}, nil
}
