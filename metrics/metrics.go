package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "miniapp_gateway"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	classifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "verdicts_total",
			Help:      "Share route requests by crawler family (human for non-crawlers).",
		},
		[]string{"family"},
	)

	shareResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "share",
			Name:      "responses_total",
			Help:      "Share responses by kind.",
		},
		[]string{"kind"},
	)

	registryLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "lookups_total",
			Help:      "Registry lookups by result.",
		},
		[]string{"result"},
	)

	navigationPlans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deeplink",
			Name:      "plans_total",
			Help:      "Navigation plans produced by platform.",
		},
		[]string{"platform"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		classifications,
		shareResponses,
		registryLookups,
		navigationPlans,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count and duration per matched route
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordClassification counts a classifier verdict
func RecordClassification(family string) {
	if family == "" {
		family = "human"
	}
	classifications.WithLabelValues(family).Inc()
}

// RecordShareResponse counts a share response, e.g. "preview", "not_found", "page"
func RecordShareResponse(kind string) {
	shareResponses.WithLabelValues(kind).Inc()
}

// RecordRegistryLookup counts a registry lookup result
func RecordRegistryLookup(result string) {
	registryLookups.WithLabelValues(result).Inc()
}

// RecordNavigationPlan counts a navigation plan
func RecordNavigationPlan(platform string) {
	navigationPlans.WithLabelValues(platform).Inc()
}
