package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func newTracingRouter(status int, withOwner bool) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(DefaultTracingConfig()))
	router.Use(SpanErrorMarker())
	if withOwner {
		router.Use(func(c *gin.Context) { SetOwnerID(c, uuid.MustParse("7f000000-0000-4000-8000-000000000001")) })
	}
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/accounts/:id", func(c *gin.Context) { c.Status(status) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SpanPerRouteWithAttributes(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracingRouter(http.StatusOK, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/42", nil)
	req.Header.Set(RequestIDHeader, "req-trace-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/accounts/:id")
	attrs := spanAttrs(spans[0])
	assert.Equal(t, "req-trace-1", attrs["request_id"].AsString())
	assert.Equal(t, "7f000000-0000-4000-8000-000000000001", attrs["user_id"].AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_SkipsHealth(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracingRouter(http.StatusOK, false)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, sr.Ended())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		isError bool
	}{
		{"not found keeps status", http.StatusNotFound, false},
		{"bad request keeps status", http.StatusBadRequest, false},
		{"server error marks span", http.StatusInternalServerError, true},
		{"unavailable marks span", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)
			router := newTracingRouter(tt.status, false)
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, int64(tt.status), spanAttrs(spans[0])["http.status_code"].AsInt64())
			assert.Equal(t, tt.isError, spans[0].Status().Code == codes.Error)
		})
	}
}

func TestTracingAttributeInjector_WithNoSpan(t *testing.T) {
	router := gin.New()
	router.Use(TracingAttributeInjector(), SpanErrorMarker())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
