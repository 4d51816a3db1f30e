package bootstrap

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/claims-ui/config"
	"github.com/ministryofjustice/claims-ui/internal/observability/statsd"
)

func TestNewMetricsSink_Disabled(t *testing.T) {
	sink, closeFn, err := NewMetricsSink(context.Background(), config.MetricsConfig{}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, statsd.Discard{}, sink)
	closeFn()
}

func TestNewMetricsSink_Enabled(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	sink, closeFn, err := NewMetricsSink(context.Background(), config.MetricsConfig{
		Enabled: true,
		Addr:    pc.LocalAddr().String(),
		Prefix:  "claims_ui",
		Env:     "test",
	}, discardLogger())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &statsd.Client{}, sink)

	sink.Count("boot", 1, nil)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 256)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "claims_ui.boot:1|c|#env:test,service:claims-ui", string(buf[:n]))
}
