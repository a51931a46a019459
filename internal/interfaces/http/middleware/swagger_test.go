package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRequest(cfg SwaggerConfig, jwt gin.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	denyJWT := func(c *gin.Context) { abortWithError(c, dto.ErrCodeUnauthorized, "no token") }
	allowJWT := func(c *gin.Context) {}

	tests := []struct {
		name       string
		cfg        SwaggerConfig
		jwt        gin.HandlerFunc
		remoteAddr string
		status     int
	}{
		{"disabled", SwaggerConfig{Enabled: false}, nil, "10.0.0.1:1234", http.StatusNotFound},
		{"open", SwaggerConfig{Enabled: true}, nil, "10.0.0.1:1234", http.StatusOK},
		{"listed ip", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, nil, "10.0.0.1:1234", http.StatusOK},
		{"unlisted ip", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, nil, "10.0.0.2:1234", http.StatusForbidden},
		{"cidr match", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, nil, "192.168.4.20:1234", http.StatusOK},
		{"cidr miss", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, nil, "172.16.0.1:1234", http.StatusForbidden},
		{"auth required and refused", SwaggerConfig{Enabled: true, RequireAuth: true}, denyJWT, "10.0.0.1:1234", http.StatusUnauthorized},
		{"auth required and granted", SwaggerConfig{Enabled: true, RequireAuth: true}, allowJWT, "10.0.0.1:1234", http.StatusOK},
		{"ip checked before auth", SwaggerConfig{Enabled: true, RequireAuth: true, AllowedIPs: []string{"10.0.0.1"}}, allowJWT, "10.9.9.9:1234", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := swaggerRequest(tt.cfg, tt.jwt, tt.remoteAddr)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestIsIPAllowed(t *testing.T) {
	prefixes := parseAllowList([]string{"127.0.0.1", "10.0.0.0/8", "::1", "not-an-ip", "300.0.0.0/8"})
	assert.Len(t, prefixes, 3)

	assert.True(t, isIPAllowed("127.0.0.1", prefixes))
	assert.True(t, isIPAllowed("10.200.1.1", prefixes))
	assert.True(t, isIPAllowed("::1", prefixes))
	assert.True(t, isIPAllowed("::ffff:10.1.1.1", prefixes))
	assert.False(t, isIPAllowed("11.0.0.1", prefixes))
	assert.False(t, isIPAllowed("", prefixes))
}
