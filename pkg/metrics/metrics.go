package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_uploads_total",
			Help: "Total number of payload uploads by endpoint and outcome (count)",
		},
		[]string{"endpoint", "status"},
	)

	UploadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_upload_duration_ms",
			Help:    "End-to-end upload exchange duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"endpoint"},
	)

	SettingsFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_settings_fetches_total",
			Help: "Total number of remote-settings fetches by outcome (count)",
		},
		[]string{"status"},
	)

	SessionRenewalsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_session_renewals_total",
			Help: "Total number of session ids minted after the idle timeout (count)",
		},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

func RegisterTransportMetrics() {
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(UploadDuration)
	prometheus.MustRegister(SettingsFetchesTotal)
}

func RegisterSessionMetrics() {
	prometheus.MustRegister(SessionRenewalsTotal)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
}
