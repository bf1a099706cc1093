package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
)

// RequestLogger logs one line per request and records HTTP metrics.
// Run it after TraceIDMiddleware so entries carry the trace id.
func RequestLogger(logger logging.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := logger.WithFields(logging.Fields{
			"trace_id": c.GetString("trace_id"),
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
		})
		c.Set("logger", entry)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		m.ObserveHTTP(route, c.Request.Method, strconv.Itoa(status), elapsed.Seconds())

		fields := logging.Fields{"status": status, "latency_ms": elapsed.Milliseconds(), "route": route}
		switch {
		case status >= 500:
			entry.WithFields(fields).Error("request failed")
		case status >= 400:
			entry.WithFields(fields).Warn("request rejected")
		default:
			entry.WithFields(fields).Info("request completed")
		}
	}
}
