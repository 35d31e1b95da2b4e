package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records purchase pipeline activity. A nil *PipelineMetrics
// is valid and records nothing.
type PipelineMetrics struct {
	transitions   *prometheus.CounterVec
	gatewayCalls  *prometheus.CounterVec
	fiscalCalls   *prometheus.CounterVec
	retries       *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	dispatchDrops prometheus.Counter
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_purchase_transitions_total",
		Help: "Purchase state transitions by target state.",
	}, []string{"state"})
	gatewayCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_gateway_calls_total",
		Help: "Payment processor calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	fiscalCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_fiscal_calls_total",
		Help: "Tax authority calls by mode, operation and outcome.",
	}, []string{"mode", "operation", "outcome"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_retries_total",
		Help: "Retried pipeline steps.",
	}, []string{"step"})
	stepDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_step_duration_seconds",
		Help:    "Duration of pipeline steps in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	dispatchDrops := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_invoice_dispatch_dropped_total",
		Help: "Invoice dispatches left to the scheduled retry because the queue was full.",
	})
	reg.MustRegister(transitions, gatewayCalls, fiscalCalls, retries, stepDuration, dispatchDrops)
	return &PipelineMetrics{
		transitions:   transitions,
		gatewayCalls:  gatewayCalls,
		fiscalCalls:   fiscalCalls,
		retries:       retries,
		stepDuration:  stepDuration,
		dispatchDrops: dispatchDrops,
	}
}

func (m *PipelineMetrics) IncTransition(state string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(state)).Inc()
}

func (m *PipelineMetrics) IncGatewayCall(operation, outcome string) {
	if m == nil || m.gatewayCalls == nil {
		return
	}
	m.gatewayCalls.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

func (m *PipelineMetrics) IncFiscalCall(mode, operation, outcome string) {
	if m == nil || m.fiscalCalls == nil {
		return
	}
	m.fiscalCalls.WithLabelValues(normalizeLabel(mode), normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

func (m *PipelineMetrics) IncRetry(step string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(normalizeLabel(step)).Inc()
}

func (m *PipelineMetrics) ObserveStep(step string, duration time.Duration) {
	if m == nil || m.stepDuration == nil {
		return
	}
	m.stepDuration.WithLabelValues(normalizeLabel(step)).Observe(duration.Seconds())
}

func (m *PipelineMetrics) IncDispatchDropped() {
	if m == nil || m.dispatchDrops == nil {
		return
	}
	m.dispatchDrops.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
