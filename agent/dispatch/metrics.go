package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

// Metrics records tool call outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		return nil
	}

	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trip_planner_tool_calls_total",
				Help: "Tool calls by tool, final status and failure kind",
			},
			[]string{"tool", "status", "kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trip_planner_tool_call_duration_seconds",
				Help:    "Tool execution latency",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"tool"},
		),
	}
	registry.MustRegister(m.calls, m.duration)
	return m
}

func (m *Metrics) observe(res contractx.ToolCallResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	kind := ""
	if res.Failure != nil {
		kind = string(res.Failure.Kind)
	}
	m.calls.WithLabelValues(res.Tool, string(res.Status), kind).Inc()
	m.duration.WithLabelValues(res.Tool).Observe(elapsed.Seconds())
}
