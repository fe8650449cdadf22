package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout results used as the "result" label.
const (
	CheckoutSuccess   = "success"
	CheckoutEmptyCart = "empty_cart"
	CheckoutConflict  = "conflict"
	CheckoutError     = "error"
)

// CheckoutMetrics counts checkout attempts by outcome and times them.
type CheckoutMetrics struct {
	total    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewCheckoutMetrics registers checkout_total and checkout_duration_seconds.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Time spent in the checkout transaction.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(total, duration)
	return &CheckoutMetrics{total: total, duration: duration}
}

// Observe records one checkout attempt.
func (m *CheckoutMetrics) Observe(result string, elapsed time.Duration) {
	if m == nil || m.total == nil {
		return
	}
	m.total.WithLabelValues(normalizeLabel(result)).Inc()
	m.duration.Observe(elapsed.Seconds())
}
