package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nws_conditions"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	ReportsServed      *prometheus.CounterVec // labels: format={json,html}
	SnapshotsPublished *prometheus.CounterVec // labels: outcome={success,error}

	// Upstream NWS fetch metrics.
	FetchRequests       *prometheus.CounterVec // labels: outcome={success,canceled,timeout,transport,malformed,logical_failure,error}
	FetchDuration       prometheus.Histogram
	FetchCache          *prometheus.CounterVec // labels: result={hit,miss}
	ForecastMisaligned  prometheus.Counter
	ObservationDegraded *prometheus.CounterVec // labels: field

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_served_total",
			Help:      "Conditions reports rendered, by output format.",
		}, []string{"format"}),
		SnapshotsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Report snapshots written to Kafka, by outcome.",
		}, []string{"outcome"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "MapClick fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "MapClick request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		FetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_cache_total",
			Help:      "MapClick response cache lookups by result.",
		}, []string{"result"}),
		ForecastMisaligned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_misaligned_total",
			Help:      "Responses whose forecast arrays differed in length and were truncated.",
		}),
		ObservationDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observation_degraded_total",
			Help:      "Observation fields that fell back to a default, by field.",
		}, []string{"field"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when place-name geocoding is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ReportsServed,
		m.SnapshotsPublished,
		m.FetchRequests,
		m.FetchDuration,
		m.FetchCache,
		m.ForecastMisaligned,
		m.ObservationDegraded,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsServed:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "reports_served_total"}, []string{"format"}),
		SnapshotsPublished:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "snapshots_published_total"}, []string{"outcome"}),
		FetchRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "fetch_requests_total"}, []string{"outcome"}),
		FetchDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "fetch_duration_seconds"}),
		FetchCache:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "fetch_cache_total"}, []string{"result"}),
		ForecastMisaligned:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "forecast_misaligned_total"}),
		ObservationDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "observation_degraded_total"}, []string{"field"}),
		GeocodeRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "geocode_enabled"}),
	}
}
