package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the fraud service. All methods
// are safe to call on a nil receiver so callers may run without metrics.
type Metrics struct {
	// Verdicts by anomalous=true|false
	Evaluations *prometheus.CounterVec

	// Reasons by rule name
	FraudReasons *prometheus.CounterVec

	EvaluateLatency prometheus.Histogram

	// Notifier calls by outcome: success, simulated, failure
	Notifications *prometheus.CounterVec

	// Backing-store failures that were served from the in-memory fallback
	StoreFallbacks *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests
// to avoid duplicate registration against the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudguard_evaluations_total",
			Help: "Total transaction evaluations by verdict",
		}, []string{"anomalous"}),

		FraudReasons: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudguard_fraud_reasons_total",
			Help: "Total fraud reasons raised by rule",
		}, []string{"rule"}),

		EvaluateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudguard_evaluate_duration_seconds",
			Help:    "Duration of a full submission including signal gathering and commit",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudguard_notifications_total",
			Help: "Total notifier calls by outcome",
		}, []string{"outcome"}),

		StoreFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudguard_store_fallbacks_total",
			Help: "Backing store failures served from the in-memory fallback",
		}, []string{"store", "op"}),
	}
}

// ObserveVerdict records one evaluation outcome and the rules it tripped.
func (m *Metrics) ObserveVerdict(anomalous bool, rules []string, d time.Duration) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(strconv.FormatBool(anomalous)).Inc()
	for _, r := range rules {
		m.FraudReasons.WithLabelValues(r).Inc()
	}
	m.EvaluateLatency.Observe(d.Seconds())
}

// IncrementNotification records a notifier outcome.
func (m *Metrics) IncrementNotification(outcome string) {
	if m != nil {
		m.Notifications.WithLabelValues(outcome).Inc()
	}
}

// IncrementStoreFallback records that store/op fell back to memory.
func (m *Metrics) IncrementStoreFallback(store, op string) {
	if m != nil {
		m.StoreFallbacks.WithLabelValues(store, op).Inc()
	}
}
