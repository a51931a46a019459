package handler

import (
	"net/http"
	"testing"
	"time"

	notificationapp "github.com/fintrack/backend/internal/application/notification"
	subapp "github.com/fintrack/backend/internal/application/subscription"
	txnapp "github.com/fintrack/backend/internal/application/transaction"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testApp) createSubscription(owner uuid.UUID, body map[string]any) subapp.SubscriptionResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/subscriptions", owner, body)
	return decode[subapp.SubscriptionResponse](a.t, w, http.StatusCreated).Data
}

func TestSubscriptionHandler_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	acc := app.createAccount(owner, "Card", "USD", "100")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	next := today.AddDate(0, 0, 10)
	sub := app.createSubscription(owner, map[string]any{
		"name":              "Streaming",
		"account_id":        acc.ID,
		"amount":            "15.99",
		"currency":          "USD",
		"frequency":         "monthly",
		"start_date":        today,
		"next_renewal_date": next,
		"auto_renew":        true,
	})
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "15.99", sub.MonthlyCost.StringFixed(2))
	assert.True(t, next.Equal(sub.NextRenewalDate))
	path := "/api/v1/subscriptions/" + sub.ID.String()

	t.Run("pause blocks renew", func(t *testing.T) {
		w := app.do(http.MethodPost, path+"/pause", owner, nil)
		assert.Equal(t, "paused", decode[subapp.SubscriptionResponse](t, w, http.StatusOK).Data.Status)

		w = app.do(http.MethodPost, path+"/pause", owner, nil)
		assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w, http.StatusUnprocessableEntity))

		w = app.do(http.MethodPost, path+"/renew", owner, nil)
		assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w, http.StatusUnprocessableEntity))

		w = app.do(http.MethodPost, path+"/resume", owner, nil)
		assert.Equal(t, "active", decode[subapp.SubscriptionResponse](t, w, http.StatusOK).Data.Status)
	})

	t.Run("renew early charges one period", func(t *testing.T) {
		w := app.do(http.MethodPost, path+"/renew", owner, nil)
		env := decode[subapp.RenewalResponse](t, w, http.StatusOK)
		assert.True(t, env.Data.Charged)
		assert.Equal(t, 1, env.Data.Charges)
		assert.True(t, env.Data.Subscription.NextRenewalDate.After(next))
		assert.NotNil(t, env.Data.Subscription.LastRenewedAt)

		assert.Equal(t, "84.01", app.balance(owner, acc.ID))

		w = app.do(http.MethodGet, "/api/v1/transactions?account_id="+acc.ID.String(), owner, nil)
		txns := decode[[]txnapp.TransactionResponse](t, w, http.StatusOK).Data
		require.Len(t, txns, 1)
		assert.Equal(t, "expense", txns[0].Type)
		require.NotNil(t, txns[0].SubscriptionID)
		assert.Equal(t, sub.ID, *txns[0].SubscriptionID)

		w = app.do(http.MethodGet, "/api/v1/notifications?type=subscription_renewed", owner, nil)
		notes := decode[[]notificationapp.NotificationResponse](t, w, http.StatusOK).Data
		require.Len(t, notes, 1)
		assert.Equal(t, sub.ID, *notes[0].RelatedID)
	})

	t.Run("cancel is final", func(t *testing.T) {
		w := app.do(http.MethodPost, path+"/cancel", owner, nil)
		env := decode[subapp.SubscriptionResponse](t, w, http.StatusOK)
		assert.Equal(t, "cancelled", env.Data.Status)
		assert.NotNil(t, env.Data.CancelledAt)

		w = app.do(http.MethodPost, path+"/resume", owner, nil)
		assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w, http.StatusUnprocessableEntity))
	})

	t.Run("delete keeps booked transactions", func(t *testing.T) {
		w := app.do(http.MethodDelete, path, owner, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = app.do(http.MethodGet, path, owner, nil)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w, http.StatusNotFound))

		w = app.do(http.MethodGet, "/api/v1/transactions", owner, nil)
		assert.Len(t, decode[[]txnapp.TransactionResponse](t, w, http.StatusOK).Data, 1)
	})
}

func TestSubscriptionHandler_Upcoming(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	soon := app.createSubscription(owner, map[string]any{
		"name": "Gym", "amount": "30", "currency": "EUR", "frequency": "monthly",
		"start_date": today, "next_renewal_date": today.AddDate(0, 0, 2),
	})
	app.createSubscription(owner, map[string]any{
		"name": "Domain", "amount": "12", "currency": "USD", "frequency": "yearly",
		"start_date": today, "next_renewal_date": today.AddDate(0, 0, 40),
	})
	app.createSubscription(uuid.New(), map[string]any{
		"name": "Someone else", "amount": "5", "currency": "USD", "frequency": "weekly",
		"start_date": today,
	})

	w := app.do(http.MethodGet, "/api/v1/subscriptions/upcoming?days=7", owner, nil)
	items := decode[[]subapp.SubscriptionResponse](t, w, http.StatusOK).Data
	require.Len(t, items, 1)
	assert.Equal(t, soon.ID, items[0].ID)

	w = app.do(http.MethodGet, "/api/v1/subscriptions/upcoming?days=60", owner, nil)
	assert.Len(t, decode[[]subapp.SubscriptionResponse](t, w, http.StatusOK).Data, 2)

	w = app.do(http.MethodGet, "/api/v1/subscriptions/upcoming?days=0", uuid.New(), nil)
	items = decode[[]subapp.SubscriptionResponse](t, w, http.StatusOK).Data
	assert.NotNil(t, items)
	assert.Empty(t, items)

	w = app.do(http.MethodGet, "/api/v1/subscriptions/upcoming?days=400", owner, nil)
	assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w, http.StatusBadRequest))
}

func TestSubscriptionHandler_Validation(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown frequency",
			body:       map[string]any{"name": "X", "amount": "1", "currency": "USD", "frequency": "fortnightly", "start_date": today},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:       "auto renew without account",
			body:       map[string]any{"name": "X", "amount": "1", "currency": "USD", "frequency": "monthly", "start_date": today, "auto_renew": true},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ACCOUNT",
		},
		{
			name:       "next renewal before start",
			body:       map[string]any{"name": "X", "amount": "1", "currency": "USD", "frequency": "monthly", "start_date": today, "next_renewal_date": today.AddDate(0, 0, -1)},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DATE",
		},
		{
			name:       "zero amount",
			body:       map[string]any{"name": "X", "amount": "0", "currency": "USD", "frequency": "monthly", "start_date": today},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_AMOUNT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodPost, "/api/v1/subscriptions", owner, tt.body)
			assert.Equal(t, tt.wantCode, errorCode(t, w, tt.wantStatus))
		})
	}
}
