package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus instruments for the service.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	transfersSubmitted *prometheus.CounterVec
	fxLookups          *prometheus.CounterVec
	fxLookupDuration   prometheus.Histogram
	draftsStarted      prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		httpRequests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		httpDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		transfersSubmitted: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "transfers_submitted_total",
			Help: "Total transfer submissions by terminal status",
		}, []string{"status"}),
		fxLookups: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fx_lookups_total",
			Help: "Total exchange-rate lookups by outcome (hit, miss, error)",
		}, []string{"outcome"}),
		fxLookupDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "fx_lookup_duration_seconds",
			Help:    "Time taken to resolve an exchange-rate quote",
			Buckets: prometheus.DefBuckets,
		}),
		draftsStarted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transfer_drafts_started_total",
			Help: "Total transfer drafts created",
		}),
	}
}

// ObserveHTTPRequest records one completed HTTP request.
func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordTransferSubmitted counts a transfer submission outcome.
func (c *Collector) RecordTransferSubmitted(status string) {
	c.transfersSubmitted.WithLabelValues(status).Inc()
}

// RecordFXLookup counts an exchange-rate lookup and its latency.
func (c *Collector) RecordFXLookup(outcome string, duration time.Duration) {
	c.fxLookups.WithLabelValues(outcome).Inc()
	c.fxLookupDuration.Observe(duration.Seconds())
}

// RecordDraftStarted counts a new wizard draft.
func (c *Collector) RecordDraftStarted() {
	c.draftsStarted.Inc()
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
