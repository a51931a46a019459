package middleware

import (
	"errors"
	"time"

	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// byteBuckets cover bodies from 100B to 5MB, the CSV import ceiling
var byteBuckets = []float64{100, 500, 1e3, 5e3, 1e4, 5e4, 1e5, 5e5, 1e6, 5e6}

type httpMetrics struct {
	requests     *telemetry.Counter
	latency      *telemetry.Histogram
	requestSize  *telemetry.Histogram
	responseSize *telemetry.Histogram
	inFlight     metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requests, err := telemetry.NewCounter(meter, "http_server_request_total", "HTTP requests by route and status", "{request}")
	if err != nil {
		return nil, err
	}
	histogram := func(name, desc, unit string, bounds []float64) *telemetry.Histogram {
		h, herr := telemetry.NewHistogram(meter, telemetry.HistogramOpts{Name: name, Description: desc, Unit: unit, Boundaries: bounds})
		err = errors.Join(err, herr)
		return h
	}
	m := &httpMetrics{
		requests:     requests,
		latency:      histogram("http_server_request_duration_seconds", "HTTP request latency", "s", telemetry.HTTPDurationBuckets),
		requestSize:  histogram("http_server_request_size_bytes", "HTTP request body size", "By", byteBuckets),
		responseSize: histogram("http_server_response_size_bytes", "HTTP response body size", "By", byteBuckets),
	}
	if err != nil {
		return nil, err
	}
	m.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests being served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// HTTPMetrics records request count, latency, body sizes and in-flight
// requests, labelled by route pattern. A disabled provider yields a
// pass-through middleware.
func HTTPMetrics(mp *telemetry.MeterProvider) gin.HandlerFunc {
	if !mp.IsEnabled() {
		return passThrough
	}
	return HTTPMetricsWithMeter(mp.Meter("http.server"))
}

// HTTPMetricsWithMeter is HTTPMetrics on an existing meter
func HTTPMetricsWithMeter(meter metric.Meter) gin.HandlerFunc {
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return passThrough
	}
	return m.observe
}

func (m *httpMetrics) observe(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()
	m.inFlight.Add(ctx, 1)
	defer m.inFlight.Add(ctx, -1)

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unknown"
	}
	attrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(route),
	}
	m.requests.Inc(ctx, append(attrs, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))...)
	m.latency.RecordDuration(ctx, time.Since(start), attrs...)
	if n := c.Request.ContentLength; n > 0 {
		m.requestSize.Record(ctx, float64(n), attrs...)
	}
	if n := c.Writer.Size(); n > 0 {
		m.responseSize.Record(ctx, float64(n), attrs...)
	}
}

func passThrough(c *gin.Context) { c.Next() }
