package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	req := require.New(t)
	m := NewMetrics()

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.ConnectionSuperseded()
	m.PushResult("delivered")
	m.PushResult("offline")
	m.PushResult("offline")
	m.MessageAppended("image")
	m.RoomsDeleted(2)
	m.RoomsDeleted(0)

	req.Equal(1.0, testutil.ToFloat64(m.hubConnections))
	req.Equal(1.0, testutil.ToFloat64(m.hubSuperseded))
	req.Equal(2.0, testutil.ToFloat64(m.pushes.WithLabelValues("offline")))
	req.Equal(1.0, testutil.ToFloat64(m.messages.WithLabelValues("image")))
	req.Equal(2.0, testutil.ToFloat64(m.roomsDeleted))
}

func TestMetrics_Nil_Is_Noop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ConnectionOpened()
		m.PushResult("dropped")
		m.MessageAppended("normal")
		m.RoomsDeleted(1)
		m.GateRejected()
	})
}
