package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"remitflow/pkg/metrics"
)

// Metrics records request counts and latencies per route. The route label is
// the gin template path so curly-brace params do not explode cardinality.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
