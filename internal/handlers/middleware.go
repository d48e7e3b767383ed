package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// routeLabel keeps label cardinality bounded: the registered pattern, never
// the raw path.
func routeLabel(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return unmatchedRoute
}

// metricsMiddleware counts requests and observes latency per route.
func (h *Handler) metricsMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := routeLabel(c)
	h.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	h.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// requestLogger logs one line per request; failures at warn, the rest at debug.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	fields := []interface{}{
		"method", c.Request.Method,
		"route", routeLabel(c),
		"status", status,
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	}
	if status >= 400 {
		h.log.Warnw("http_request", fields...)
		return
	}
	h.log.Debugw("http_request", fields...)
}
