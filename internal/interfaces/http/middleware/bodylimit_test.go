package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// importEngine echoes the size of the uploaded statement, or 413 when the
// reader hits the limit mid-stream
func importEngine(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BodyLimit(limit))
	upload := func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, "%d", len(data))
	}
	engine.POST("/transactions/import", upload)
	engine.GET("/transactions/export", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestBodyLimit(t *testing.T) {
	csv := "date,amount\n2026-04-01,12.50\n"

	tests := []struct {
		name     string
		limit    int64
		method   string
		path     string
		body     string
		chunked  bool
		wantCode int
		wantBody string
	}{
		{"within limit", 1024, http.MethodPost, "/transactions/import", csv, false, http.StatusOK, "29"},
		{"declared length over limit", 16, http.MethodPost, "/transactions/import", csv, false, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge},
		{"chunked body cut off while reading", 16, http.MethodPost, "/transactions/import", csv, true, http.StatusRequestEntityTooLarge, ""},
		{"bodyless request", 1, http.MethodGet, "/transactions/export", "", false, http.StatusOK, ""},
		{"zero disables the limit", 0, http.MethodPost, "/transactions/import", strings.Repeat(csv, 200), false, http.StatusOK, "5800"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			importEngine(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}
