package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelagency_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "travelagency_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CollectionWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelagency_collection_writes_total",
		Help: "Ledger collection writes by collection key.",
	}, []string{"collection"})

	HubClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "travelagency_hub_clients",
		Help: "Connected cross-context clients.",
	})

	BookingsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "travelagency_bookings_total",
		Help: "Bookings currently in the ledger.",
	})

	Revenue = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "travelagency_revenue",
		Help: "Revenue over approved, non-refunded bookings.",
	})
)

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
