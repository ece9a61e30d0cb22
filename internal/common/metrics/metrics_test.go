package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDispatchMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDispatchMetrics(reg)

	m.ObserveRegistration("registered")
	m.ObserveRegistration("registered")
	m.ObserveRegistration("duplicate")
	m.ObserveAssignment("Cardiology", "assigned")
	m.ObserveCall("Cardiology", "EMERGENCY")
	m.ObserveCall("Cardiology", "")
	m.SetQueueDepth("Cardiology", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues("registered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assignments.WithLabelValues("Cardiology", "assigned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("Cardiology", "none")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.queueDepth.WithLabelValues("Cardiology")))
}

func TestDispatchMetrics_NilSafe(t *testing.T) {
	var m *DispatchMetrics
	m.ObserveRegistration("registered")
	m.ObserveAssignment("Cardiology", "assigned")
	m.ObserveCall("Cardiology", "")
	m.SetQueueDepth("Cardiology", 1)
}

func TestDispatchMetrics_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewDispatchMetrics(reg)

	assert.Panics(t, func() { NewDispatchMetrics(reg) }, "second registration on the same registry must collide")
}
