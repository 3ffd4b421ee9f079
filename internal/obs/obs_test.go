package obs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForReturnsPreregisteredLogger(t *testing.T) {
	l := For("shmem")
	require.NotNil(t, l)
}

func TestForFallsBackForUnknownName(t *testing.T) {
	l := For("some-future-component")
	require.NotNil(t, l)
}

func TestNewMetricsRegistersDistinctCollectors(t *testing.T) {
	m, reg := NewMetrics()
	require.NotNil(t, m)

	m.MessagesEncoded.WithLabelValues("proto").Inc()
	m.MessagesDecoded.WithLabelValues("lcm").Inc()
	m.DatagramsSent.Inc()
	m.DatagramsRecv.Inc()
	m.LockWait.Observe(0.001)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewMetricsFreshRegistryPerCall(t *testing.T) {
	_, reg1 := NewMetrics()
	_, reg2 := NewMetrics()
	assert.NotSame(t, reg1, reg2)
}
