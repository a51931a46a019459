package ratefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHTTPFeed_Fetch(t *testing.T) {
	t.Run("decodes rates and date", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"base":"usd","date":"2026-06-15","rates":{"EUR":0.9123,"GBP":0.78,"XXX1":2}}`))
		}))
		defer srv.Close()

		snap, err := NewHTTPFeed(srv.URL, time.Second, zaptest.NewLogger(t)).Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, valueobject.USD, snap.Base)
		assert.True(t, snap.FetchedAt.Equal(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)))
		require.Len(t, snap.Rates, 2)
		assert.Equal(t, "0.9123", snap.Rates[valueobject.EUR].String())
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewHTTPFeed(srv.URL, time.Second, zaptest.NewLogger(t)).Fetch(context.Background())
		assert.ErrorContains(t, err, "429")
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base":`))
		}))
		defer srv.Close()

		_, err := NewHTTPFeed(srv.URL, time.Second, zaptest.NewLogger(t)).Fetch(context.Background())
		assert.ErrorContains(t, err, "decode rate feed")
	})
}
