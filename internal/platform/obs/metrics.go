package obs

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the dashboard service.
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ViewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_views_total",
			Help: "Dashboard views computed, by view and result",
		},
		[]string{"view", "result"},
	)

	SkippedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_skipped_records_total",
			Help: "Records left out of a view because of invalid geometry",
		},
		[]string{"kind"},
	)

	EventsIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_events_ingested_total",
			Help: "Delivery events newly stored (duplicates excluded)",
		},
	)

	ZoneCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zone_cache_lookups_total",
			Help: "Zone cache lookups by result",
		},
		[]string{"result"},
	)
)

// Register registers all metrics with reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ViewsTotal,
		SkippedRecords,
		EventsIngested,
		ZoneCacheLookups,
	)
}
