package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestControllerFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/subscriptions/:id/renew", "subscriptions"},
		{"/api/v1/accounts", "accounts"},
		{"/api/V2/goals/:id", "goals"},
		{"/health", "health"},
		{"/api/v1/:id", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, controllerFromRoute(tt.route))
		})
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("accounts"))
}

func TestProfilingWithConfig(t *testing.T) {
	var route string
	router := gin.New()
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))
	router.GET("/api/v1/accounts/:id", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/accounts/:id", route)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, route)
}

func TestProfilingWithConfig_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
