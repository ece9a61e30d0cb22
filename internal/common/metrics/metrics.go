package metrics

import "github.com/prometheus/client_golang/prometheus"

// DispatchMetrics exposes counters/gauges for the front-desk dispatch flow.
// A nil *DispatchMetrics is valid and records nothing.
type DispatchMetrics struct {
	registrations *prometheus.CounterVec
	assignments   *prometheus.CounterVec
	calls         *prometheus.CounterVec
	queueDepth    *prometheus.GaugeVec
}

func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	m := &DispatchMetrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poliklinik",
			Subsystem: "dispatch",
			Name:      "registrations_total",
			Help:      "Patient registration attempts by result",
		}, []string{"result"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poliklinik",
			Subsystem: "dispatch",
			Name:      "assignments_total",
			Help:      "Queue assignment attempts by queue and result",
		}, []string{"queue", "result"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poliklinik",
			Subsystem: "dispatch",
			Name:      "calls_total",
			Help:      "Call-next requests by requested specialty and serving queue",
		}, []string{"requested", "served"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "poliklinik",
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Patients currently waiting per queue",
		}, []string{"queue"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.registrations, m.assignments, m.calls, m.queueDepth)
	return m
}

func (m *DispatchMetrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *DispatchMetrics) ObserveAssignment(queue, result string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(queue, result).Inc()
}

// ObserveCall records a call-next. served is empty when nobody was waiting.
func (m *DispatchMetrics) ObserveCall(requested, served string) {
	if m == nil {
		return
	}
	if served == "" {
		served = "none"
	}
	m.calls.WithLabelValues(requested, served).Inc()
}

func (m *DispatchMetrics) SetQueueDepth(queue string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(queue).Set(float64(depth))
}
