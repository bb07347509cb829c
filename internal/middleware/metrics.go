package middleware

import (
	"time"

	"evidencias/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records every request under its route template. Unmatched routes
// share one label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.RequestStarted()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
