package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSink counts events in Prometheus metrics. Counters are registered
// on the supplied registerer at construction time.
type MetricsSink struct {
	events       *prometheus.CounterVec
	pollAttempts *prometheus.CounterVec
	fragments    prometheus.Counter
}

// NewMetricsSink creates a MetricsSink and registers its collectors.
func NewMetricsSink(reg prometheus.Registerer) *MetricsSink {
	s := &MetricsSink{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "copilot_events_total",
			Help: "Total number of observability events by type and severity",
		}, []string{"type", "severity"}),
		pollAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "copilot_device_poll_attempts_total",
			Help: "Total number of device authorization poll attempts by result",
		}, []string{"result"}),
		fragments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "copilot_completion_fragments_total",
			Help: "Total number of completion fragments delivered to callers",
		}),
	}
	reg.MustRegister(s.events, s.pollAttempts, s.fragments)
	return s
}

// Write counts the event.
func (s *MetricsSink) Write(_ context.Context, event *Event) error {
	s.events.WithLabelValues(string(event.Type), string(event.Severity)).Inc()

	switch event.Type {
	case EventPollPending:
		s.pollAttempts.WithLabelValues("pending").Inc()
	case EventPollSlowDown:
		s.pollAttempts.WithLabelValues("slow_down").Inc()
	case EventPollIndeterminate:
		s.pollAttempts.WithLabelValues("indeterminate").Inc()
	case EventStreamDone:
		if n, ok := event.Details["fragments"].(int); ok && n > 0 {
			s.fragments.Add(float64(n))
		}
	}
	return nil
}

// Close is a no-op for MetricsSink.
func (s *MetricsSink) Close() error {
	return nil
}

// Name returns the sink identifier.
func (s *MetricsSink) Name() string {
	return "metrics"
}
