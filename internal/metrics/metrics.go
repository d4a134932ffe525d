// internal/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Searches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solarcatalog_searches_total",
		Help: "The total number of processed catalog searches",
	})
	FacetRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solarcatalog_facets_total",
		Help: "The total number of facet vocabulary requests",
	})
	Exports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solarcatalog_exports_total",
		Help: "The total number of spreadsheet exports",
	})
	Reloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solarcatalog_reloads_total",
		Help: "Catalog reloads by outcome",
	}, []string{"outcome"})
	CatalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solarcatalog_products",
		Help: "Number of products in the current snapshot",
	})
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solarcatalog_sessions_active",
		Help: "Number of live filter sessions",
	})
	SessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solarcatalog_sessions_evicted_total",
		Help: "Sessions dropped to stay under the session limit",
	})
	FilterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "solarcatalog_filter_duration_seconds",
		Help:    "Time spent filtering and sorting one view",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solarcatalog_rate_limited_total",
		Help: "Requests rejected by a rate limiter",
	}, []string{"limiter"})
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solarcatalog_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// ObserveFilter records how long a filter pass took.
func ObserveFilter(start time.Time) {
	FilterDuration.Observe(time.Since(start).Seconds())
}

func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
