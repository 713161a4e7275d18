package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DrawDuration tracks the latency of a draw, including the pool queries
	DrawDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kupon_draw_duration_seconds",
			Help: "Duration of draw requests in seconds",
			Buckets: []float64{
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
			},
		},
		[]string{"status"}, // success, empty or error
	)

	// AllocationsTotal counts saved allocations by mode and payment status
	AllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kupon_allocations_total",
			Help: "Coupon allocations written, by mode and payment status",
		},
		[]string{"mode", "payment_status"},
	)

	// EligiblePoolSize is the size of the pool seen by the most recent draw
	EligiblePoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kupon_eligible_pool_size",
			Help: "Number of drawable coupons at the last draw",
		},
	)

	// WinnersSaved counts saved draw results
	WinnersSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kupon_winners_saved_total",
			Help: "Draw results saved as winners",
		},
	)
)

// RecordDrawDuration records the duration of a draw request
func RecordDrawDuration(status string, duration float64) {
	DrawDuration.WithLabelValues(status).Observe(duration)
}

// RecordAllocation counts one written allocation
func RecordAllocation(mode, paymentStatus string) {
	AllocationsTotal.WithLabelValues(mode, paymentStatus).Inc()
}
