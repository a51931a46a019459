package handler

import (
	"net/http"
	"testing"

	accountapp "github.com/fintrack/backend/internal/application/account"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountHandler_CRUD(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()

	created := app.createAccount(owner, "Main checking", "USD", "1500.50")
	assert.Equal(t, "Main checking", created.Name)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, "1500.50", created.Balance.StringFixed(2))

	t.Run("get", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/accounts/"+created.ID.String(), owner, nil)
		env := decode[accountapp.AccountResponse](t, w, http.StatusOK)
		assert.Equal(t, created.ID, env.Data.ID)
	})

	t.Run("update", func(t *testing.T) {
		w := app.do(http.MethodPut, "/api/v1/accounts/"+created.ID.String(), owner, map[string]any{
			"name": "Household", "type": "checking", "currency": "USD",
		})
		env := decode[accountapp.AccountResponse](t, w, http.StatusOK)
		assert.Equal(t, "Household", env.Data.Name)
	})

	t.Run("list with meta", func(t *testing.T) {
		app.createAccount(owner, "Savings", "EUR", "0")
		w := app.do(http.MethodGet, "/api/v1/accounts?page=1&page_size=1", owner, nil)
		env := decode[[]accountapp.AccountResponse](t, w, http.StatusOK)
		assert.Len(t, env.Data, 1)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(2), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.TotalPages)
	})

	t.Run("delete", func(t *testing.T) {
		w := app.do(http.MethodDelete, "/api/v1/accounts/"+created.ID.String(), owner, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = app.do(http.MethodGet, "/api/v1/accounts/"+created.ID.String(), owner, nil)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w, http.StatusNotFound))
	})
}

func TestAccountHandler_Validation(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()

	tests := []struct {
		name string
		body any
		want string
	}{
		{"unknown type", map[string]any{"name": "A", "type": "brokerage", "currency": "USD"}, dto.ErrCodeValidation},
		{"bad currency", map[string]any{"name": "A", "type": "cash", "currency": "dollars"}, dto.ErrCodeValidation},
		{"missing name", map[string]any{"type": "cash", "currency": "USD"}, dto.ErrCodeValidation},
		{"malformed body", `{"name":`, dto.ErrCodeInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodPost, "/api/v1/accounts", owner, tt.body)
			assert.Equal(t, tt.want, errorCode(t, w, http.StatusBadRequest))
		})
	}

	t.Run("bad path id", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/accounts/123", owner, nil)
		assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w, http.StatusBadRequest))
	})

	t.Run("anonymous", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/accounts", uuid.Nil, nil)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w, http.StatusUnauthorized))
	})
}

func TestAccountHandler_OwnershipIsolation(t *testing.T) {
	app := newTestApp(t)
	alice, bob := uuid.New(), uuid.New()
	acc := app.createAccount(alice, "Alice wallet", "USD", "10")
	path := "/api/v1/accounts/" + acc.ID.String()

	for _, req := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, path, nil},
		{http.MethodPut, path, map[string]any{"name": "Mine now", "type": "cash", "currency": "USD"}},
		{http.MethodPost, path + "/archive", nil},
		{http.MethodPost, path + "/adjust-balance", map[string]any{"balance": "0"}},
		{http.MethodDelete, path, nil},
	} {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			w := app.do(req.method, req.path, bob, req.body)
			assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w, http.StatusNotFound))
		})
	}

	w := app.do(http.MethodGet, "/api/v1/accounts", bob, nil)
	env := decode[[]accountapp.AccountResponse](t, w, http.StatusOK)
	assert.Empty(t, env.Data)

	w = app.do(http.MethodGet, path, alice, nil)
	env2 := decode[accountapp.AccountResponse](t, w, http.StatusOK)
	assert.Equal(t, "Alice wallet", env2.Data.Name)
	assert.Equal(t, "10.00", env2.Data.Balance.StringFixed(2))
}

func TestAccountHandler_ArchiveLifecycle(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	acc := app.createAccount(owner, "Old card", "USD", "0")
	path := "/api/v1/accounts/" + acc.ID.String()

	w := app.do(http.MethodPost, path+"/archive", owner, nil)
	env := decode[accountapp.AccountResponse](t, w, http.StatusOK)
	assert.True(t, env.Data.IsArchived)
	assert.NotNil(t, env.Data.ArchivedAt)

	w = app.do(http.MethodPost, path+"/archive", owner, nil)
	assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w, http.StatusUnprocessableEntity))

	w = app.do(http.MethodGet, "/api/v1/accounts", owner, nil)
	assert.Empty(t, decode[[]accountapp.AccountResponse](t, w, http.StatusOK).Data)

	w = app.do(http.MethodGet, "/api/v1/accounts?include_archived=true", owner, nil)
	assert.Len(t, decode[[]accountapp.AccountResponse](t, w, http.StatusOK).Data, 1)

	w = app.do(http.MethodPost, path+"/unarchive", owner, nil)
	assert.False(t, decode[accountapp.AccountResponse](t, w, http.StatusOK).Data.IsArchived)
}

func TestAccountHandler_AdjustBalance(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	acc := app.createAccount(owner, "Cash", "EUR", "100")
	path := "/api/v1/accounts/" + acc.ID.String()

	w := app.do(http.MethodPost, path+"/adjust-balance", owner, map[string]any{"balance": "42.10", "reason": "recount"})
	env := decode[accountapp.AccountResponse](t, w, http.StatusOK)
	assert.Equal(t, "42.10", env.Data.Balance.StringFixed(2))

	w = app.do(http.MethodGet, path, owner, nil)
	assert.Equal(t, "42.10", decode[accountapp.AccountResponse](t, w, http.StatusOK).Data.Balance.StringFixed(2))
}
