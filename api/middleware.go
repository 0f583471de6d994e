package api

import (
	"time"

	"github.com/Domenick1991/farescope/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Errorw("http request", fields...)
		case c.Writer.Status() >= 400:
			log.Warnw("http request", fields...)
		default:
			log.Infow("http request", fields...)
		}
	}
}

// RequestMetrics records request counts and latency by route template.
func RequestMetrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		reg.ObserveHTTP(endpoint, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
