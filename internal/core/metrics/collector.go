package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exposes the service's Prometheus metrics. Fallback counts are
// first-class: a rising fallback rate means the seeded data has gone stale
// relative to the windows clients ask for.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	databaseQueryDuration *prometheus.HistogramVec

	reportFallbacks *prometheus.CounterVec
	reportNoData    *prometheus.CounterVec
}

// NewCollector registers and returns the service collector.
func NewCollector(prefix string) *Collector {
	if prefix == "" {
		prefix = "analytics"
	}

	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		databaseQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_database_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"report"},
		),
		reportFallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_report_fallbacks_total",
				Help: "Reports served from fallback data instead of the requested window",
			},
			[]string{"report", "period"},
		),
		reportNoData: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_report_no_data_total",
				Help: "Reports that had no data even after fallback",
			},
			[]string{"report"},
		),
	}
}

// RecordHTTPRequest records one served HTTP request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordQuery records the duration of one report query.
func (c *Collector) RecordQuery(report string, duration time.Duration) {
	c.databaseQueryDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// RecordFallback counts a report served from substituted data.
func (c *Collector) RecordFallback(report, period string) {
	c.reportFallbacks.WithLabelValues(report, period).Inc()
}

// RecordNoData counts a report that came back empty everywhere.
func (c *Collector) RecordNoData(report string) {
	c.reportNoData.WithLabelValues(report).Inc()
}
