package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all cross-cutting Prometheus metrics for the portal.
// Module-specific metrics live next to their modules.
type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	LoginLockouts   prometheus.Counter
	ActiveSessions  prometheus.Gauge
	EndpointLatency *prometheus.HistogramVec

	DeliveriesSubmitted  prometheus.Counter
	DeliverySubmitErrors prometheus.Counter

	PublicationsPublished *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solidario_login_attempts_total",
			Help: "Total login attempts by outcome",
		}, []string{"outcome"}),
		LoginLockouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "solidario_login_lockouts_total",
			Help: "Total number of login lockouts triggered",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "solidario_delivery_sessions_active",
			Help: "Current number of open delivery registration sessions",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solidario_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		DeliveriesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "solidario_deliveries_submitted_total",
			Help: "Total number of benefit deliveries registered",
		}),
		DeliverySubmitErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "solidario_delivery_submit_errors_total",
			Help: "Total number of failed delivery submissions",
		}),
		PublicationsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solidario_publications_published_total",
			Help: "Total number of publications published, by kind",
		}, []string{"kind"}),
	}
}
