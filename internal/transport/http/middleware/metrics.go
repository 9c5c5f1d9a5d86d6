package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "roombooking", Name: "http_requests_total", Help: "HTTP requests by route and status"},
		[]string{"route", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roombooking",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency) }

// Metrics records per-route counts and latency. Unmatched paths share one
// label so arbitrary URLs cannot grow the series set.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if route == "/metrics" {
			return
		}
		httpReqTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
