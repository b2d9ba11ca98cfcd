package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for citizen registry lookups.
type Metrics struct {
	Lookups       *prometheus.CounterVec
	LookupErrors  *prometheus.CounterVec
	LookupLatency *prometheus.HistogramVec
	CacheHits     *prometheus.CounterVec
	CacheMisses   *prometheus.CounterVec
}

// New creates and registers registry metrics.
func New() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solidario_registry_lookups_total",
			Help: "Total citizen registry lookups by tier and outcome",
		}, []string{"tier", "outcome"}),
		LookupErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solidario_registry_lookup_errors_total",
			Help: "Total citizen registry transport failures by tier",
		}, []string{"tier"}),
		LookupLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solidario_registry_lookup_latency_seconds",
			Help:    "Latency of citizen registry lookups by tier",
			Buckets: prometheus.DefBuckets,
		}, []string{"tier"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solidario_registry_cache_hits_total",
			Help: "Registry cache hits by tier",
		}, []string{"tier"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "solidario_registry_cache_misses_total",
			Help: "Registry cache misses by tier",
		}, []string{"tier"}),
	}
}

// ObserveLookup records a completed lookup with its outcome and latency.
func (m *Metrics) ObserveLookup(tier, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(tier, outcome).Inc()
	m.LookupLatency.WithLabelValues(tier).Observe(time.Since(start).Seconds())
}
