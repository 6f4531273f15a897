package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spire"

// Metrics holds the agent collectors.
type Metrics struct {
	registry *prometheus.Registry

	StateEntries  *prometheus.CounterVec
	ActiveState   *prometheus.GaugeVec
	StepFaults    *prometheus.CounterVec
	ReasonerCalls *prometheus.HistogramVec
	ChatMessages  prometheus.Counter
}

// NewMetrics creates the collectors and registers them on a fresh registry,
// together with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StateEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_entries_total",
			Help:      "Number of times each state became active.",
		}, []string{"state"}),
		ActiveState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state_active",
			Help:      "1 for the state currently active, 0 otherwise.",
		}, []string{"state"}),
		StepFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_faults_total",
			Help:      "Steps recovered by the fault boundary.",
		}, []string{"state", "panic"}),
		ReasonerCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reasoner_call_duration_seconds",
			Help:      "Duration of reasoner round-trips.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"topic", "outcome"}),
		ChatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Chat payloads extracted from reasoner answers.",
		}),
	}
	m.registry.MustRegister(
		m.StateEntries,
		m.ActiveState,
		m.StepFaults,
		m.ReasonerCalls,
		m.ChatMessages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			m.StateEntries.WithLabelValues(string(e.State)).Inc()
			m.ActiveState.WithLabelValues(string(e.State)).Set(1)
		},
		OnStateLeave: func(_ context.Context, e *domain.StateEvent) {
			m.ActiveState.WithLabelValues(string(e.State)).Set(0)
		},
		OnStepFault: func(_ context.Context, e *domain.FaultEvent) {
			panicked := "false"
			if e.Panic {
				panicked = "true"
			}
			m.StepFaults.WithLabelValues(string(e.State), panicked).Inc()
		},
		OnReasonerCall: func(_ context.Context, e *domain.ReasonerEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.ReasonerCalls.WithLabelValues(string(e.Topic), outcome).Observe(e.Duration.Seconds())
		},
		OnChat: func(context.Context, *domain.ChatEvent) {
			m.ChatMessages.Inc()
		},
	}
}
