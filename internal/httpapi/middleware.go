package httpapi

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-service/pkg/ratelimit"
)

// redactedHeaders are never written to the request log.
var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

// requestLogger logs one line per request. Request headers are logged at
// debug level, minus credentials.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}

		event = event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if logger.GetLevel() <= zerolog.DebugLevel {
			headers := zerolog.Dict()
			for name, values := range c.Request.Header {
				if redactedHeaders[http.CanonicalHeaderKey(name)] {
					continue
				}
				headers = headers.Str(name, strings.Join(values, ", "))
			}
			event = event.Dict("headers", headers)
		}

		event.Msg("HTTP request")
	}
}

// rateLimit rejects requests from clients whose bucket is empty.
func rateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = c.RemoteIP()
		}

		d := limiter.Allow(ip)
		if !d.Allowed {
			seconds := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{Error: errLimitExceeded})
			return
		}

		c.Next()
	}
}

// requestMetrics records request counts and latency by route template.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
