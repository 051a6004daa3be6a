package middleware

import (
	"time"

	"github.com/bottling/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTP metric attribute keys
var (
	attrHTTPMethod = attribute.Key("http.method")
	attrHTTPRoute  = attribute.Key("http.route")
	attrHTTPStatus = attribute.Key("http.status_code")
)

// httpDurationBuckets are request latency boundaries in seconds
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// HTTPMetrics counts requests and records their latency by route pattern.
// A meter that fails to create instruments yields a pass-through middleware.
func HTTPMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	total, err := telemetry.NewCounter(meter, "http.server.requests", "Total number of HTTP requests", "{request}")
	if err == nil {
		var duration *telemetry.Histogram
		duration, err = telemetry.NewHistogram(meter, "http.server.duration", "HTTP request latency", "s", httpDurationBuckets...)
		if err == nil {
			return httpMetrics(total, duration)
		}
	}
	log.Warn("HTTP metrics disabled", zap.Error(err))
	return func(c *gin.Context) { c.Next() }
}

func httpMetrics(total *telemetry.Counter, duration *telemetry.Histogram) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx := c.Request.Context()
		method := attrHTTPMethod.String(c.Request.Method)
		total.Inc(ctx, method, attrHTTPRoute.String(route), attrHTTPStatus.Int(c.Writer.Status()))
		duration.Record(ctx, time.Since(start).Seconds(), method, attrHTTPRoute.String(route))
	}
}
