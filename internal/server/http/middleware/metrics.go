package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safetrack/ppeorder/internal/metrics"
)

// CollectMetrics records request counts and latency per route. The
// route template is used rather than the raw path to keep label
// cardinality bounded.
func CollectMetrics(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.Requests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.Latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
