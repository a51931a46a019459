package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subscriptionBody struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Currency  string `json:"currency" binding:"required,currency"`
	Frequency string `json:"frequency" binding:"required,frequency"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req subscriptionBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(router http.Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestValidation_CustomTags(t *testing.T) {
	router := newValidationRouter()

	tests := []struct {
		name   string
		body   string
		status int
		fields []string
	}{
		{"valid", `{"name":"Netflix","currency":"USD","frequency":"monthly"}`, http.StatusOK, nil},
		{"lower case currency", `{"name":"Netflix","currency":"eur","frequency":"yearly"}`, http.StatusOK, nil},
		{"unknown currency", `{"name":"Netflix","currency":"XYZ","frequency":"monthly"}`, http.StatusBadRequest, []string{"currency"}},
		{"unknown frequency", `{"name":"Netflix","currency":"USD","frequency":"hourly"}`, http.StatusBadRequest, []string{"frequency"}},
		{"missing fields", `{}`, http.StatusBadRequest, []string{"name", "currency", "frequency"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, tt.body, nil)
			require.Equal(t, tt.status, w.Code)
			if tt.fields == nil {
				return
			}

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

			var got []string
			for _, d := range resp.Error.Details {
				got = append(got, d.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestValidation_MessagesAndRequestID(t *testing.T) {
	router := newValidationRouter()

	w := postJSON(router, `{"name":"Netflix","currency":"XYZ","frequency":"monthly"}`,
		map[string]string{RequestIDHeader: "req-42"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-42", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "Must be an ISO 4217 currency code", resp.Error.Details[0].Message)
}

func TestValidation_MalformedJSONHasNoDetails(t *testing.T) {
	router := newValidationRouter()

	w := postJSON(router, `{"name":`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error.Details)
}

func TestIsValidationError(t *testing.T) {
	SetupValidator()
	var req subscriptionBody

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Gym"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	assert.True(t, IsValidationError(c.ShouldBindJSON(&req)))

	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	c.Request.Header.Set("Content-Type", "application/json")
	assert.False(t, IsValidationError(c.ShouldBindJSON(&req)))
}
