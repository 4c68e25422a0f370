package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the application
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ReactionToggles     *prometheus.CounterVec
	MediaUploadsTotal   *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cliptube_http_requests_total",
					Help: "Total HTTP requests by method, route and status",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "cliptube_http_request_duration_seconds",
					Help:    "HTTP request latency by route",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
			ReactionToggles: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cliptube_reaction_toggles_total",
					Help: "Reaction toggles by target kind and outcome",
				},
				[]string{"target_kind", "outcome"},
			),
			MediaUploadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cliptube_media_uploads_total",
					Help: "Media host uploads by category and result",
				},
				[]string{"category", "result"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it if needed.
func Get() *Metrics {
	return Initialize()
}

// GinMiddleware records request counts and latency per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordToggle counts a reaction toggle outcome.
func (m *Metrics) RecordToggle(targetKind string, added bool) {
	outcome := "removed"
	if added {
		outcome = "added"
	}
	m.ReactionToggles.WithLabelValues(targetKind, outcome).Inc()
}

// RecordUpload counts a media upload result.
func (m *Metrics) RecordUpload(category string, ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	m.MediaUploadsTotal.WithLabelValues(category, result).Inc()
}
