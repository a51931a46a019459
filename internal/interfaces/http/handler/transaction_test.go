package handler

import (
	"bytes"
	"encoding/csv"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	accountapp "github.com/fintrack/backend/internal/application/account"
	txnapp "github.com/fintrack/backend/internal/application/transaction"
	"github.com/fintrack/backend/internal/infrastructure/csvio"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testApp) balance(owner, accountID uuid.UUID) string {
	a.t.Helper()
	w := a.do(http.MethodGet, "/api/v1/accounts/"+accountID.String(), owner, nil)
	return decode[accountapp.AccountResponse](a.t, w, http.StatusOK).Data.Balance.StringFixed(2)
}

func (a *testApp) createTransaction(owner uuid.UUID, body map[string]any) txnapp.TransactionResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/transactions", owner, body)
	return decode[txnapp.TransactionResponse](a.t, w, http.StatusCreated).Data
}

func TestTransactionHandler_BalanceEffects(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	checking := app.createAccount(owner, "Checking", "USD", "1000")
	savings := app.createAccount(owner, "Savings", "USD", "0")
	groceries := app.createCategory(owner, "Groceries", "expense")

	expense := app.createTransaction(owner, map[string]any{
		"account_id":  checking.ID,
		"category_id": groceries.ID,
		"type":        "expense",
		"amount":      "82.45",
		"description": "Weekly shop",
		"date":        "2026-03-14T10:00:00Z",
	})
	assert.Equal(t, "USD", expense.Currency)
	assert.Equal(t, "82.45", expense.ConvertedAmount.StringFixed(2))
	assert.Equal(t, "917.55", app.balance(owner, checking.ID))

	app.createTransaction(owner, map[string]any{
		"account_id": checking.ID,
		"type":       "income",
		"amount":     "2500",
		"date":       "2026-03-15T00:00:00Z",
	})
	assert.Equal(t, "3417.55", app.balance(owner, checking.ID))

	transfer := app.createTransaction(owner, map[string]any{
		"account_id":             checking.ID,
		"destination_account_id": savings.ID,
		"type":                   "transfer",
		"amount":                 "400",
		"date":                   "2026-03-16T00:00:00Z",
	})
	assert.Equal(t, "3017.55", app.balance(owner, checking.ID))
	assert.Equal(t, "400.00", app.balance(owner, savings.ID))

	t.Run("update reverses and reapplies", func(t *testing.T) {
		w := app.do(http.MethodPut, "/api/v1/transactions/"+expense.ID.String(), owner, map[string]any{
			"account_id": checking.ID,
			"type":       "expense",
			"amount":     "100",
			"date":       "2026-03-14T10:00:00Z",
		})
		decode[txnapp.TransactionResponse](t, w, http.StatusOK)
		assert.Equal(t, "3000.00", app.balance(owner, checking.ID))
	})

	t.Run("delete reverses", func(t *testing.T) {
		w := app.do(http.MethodDelete, "/api/v1/transactions/"+transfer.ID.String(), owner, nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "3400.00", app.balance(owner, checking.ID))
		assert.Equal(t, "0.00", app.balance(owner, savings.ID))
	})

	t.Run("list filtered by type", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/transactions?type=income", owner, nil)
		env := decode[[]txnapp.TransactionResponse](t, w, http.StatusOK)
		require.Len(t, env.Data, 1)
		assert.Equal(t, "income", env.Data[0].Type)
	})
}

func TestTransactionHandler_CrossCurrency(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	euro := app.createAccount(owner, "Euro account", "EUR", "0")

	w := app.do(http.MethodPut, "/api/v1/exchange-rates", owner, map[string]any{
		"from_currency": "USD", "to_currency": "EUR", "rate": "0.9",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	txn := app.createTransaction(owner, map[string]any{
		"account_id": euro.ID,
		"type":       "income",
		"amount":     "100",
		"currency":   "USD",
		"date":       "2026-03-14T00:00:00Z",
	})
	assert.Equal(t, "USD", txn.Currency)
	assert.Equal(t, "90.00", txn.ConvertedAmount.StringFixed(2))
	assert.Equal(t, "90.00", app.balance(owner, euro.ID))
}

func TestTransactionHandler_Rejections(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	acc := app.createAccount(owner, "Checking", "USD", "0")
	other := app.createAccount(uuid.New(), "Not mine", "USD", "0")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "zero amount",
			body:       map[string]any{"account_id": acc.ID, "type": "expense", "amount": "0", "date": "2026-03-14T00:00:00Z"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_AMOUNT",
		},
		{
			name:       "negative amount",
			body:       map[string]any{"account_id": acc.ID, "type": "income", "amount": "-5", "date": "2026-03-14T00:00:00Z"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_AMOUNT",
		},
		{
			name:       "transfer to itself",
			body:       map[string]any{"account_id": acc.ID, "destination_account_id": acc.ID, "type": "transfer", "amount": "5", "date": "2026-03-14T00:00:00Z"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DESTINATION",
		},
		{
			name:       "transfer without destination",
			body:       map[string]any{"account_id": acc.ID, "type": "transfer", "amount": "5", "date": "2026-03-14T00:00:00Z"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DESTINATION",
		},
		{
			name:       "foreign account",
			body:       map[string]any{"account_id": other.ID, "type": "expense", "amount": "5", "date": "2026-03-14T00:00:00Z"},
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "unknown type",
			body:       map[string]any{"account_id": acc.ID, "type": "refund", "amount": "5", "date": "2026-03-14T00:00:00Z"},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodPost, "/api/v1/transactions", owner, tt.body)
			assert.Equal(t, tt.wantCode, errorCode(t, w, tt.wantStatus))
		})
	}
	assert.Equal(t, "0.00", app.balance(owner, acc.ID))

	t.Run("archived account", func(t *testing.T) {
		w := app.do(http.MethodPost, "/api/v1/accounts/"+acc.ID.String()+"/archive", owner, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w = app.do(http.MethodPost, "/api/v1/transactions", owner, map[string]any{
			"account_id": acc.ID, "type": "expense", "amount": "5", "date": "2026-03-14T00:00:00Z",
		})
		assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w, http.StatusUnprocessableEntity))
	})
}

func TestTransactionHandler_Export(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	acc := app.createAccount(owner, "Checking", "USD", "0")
	app.createTransaction(owner, map[string]any{
		"account_id":  acc.ID,
		"type":        "expense",
		"amount":      "12.5",
		"description": "Coffee, beans",
		"date":        "2026-03-14T00:00:00Z",
	})

	w := app.do(http.MethodGet, "/api/v1/transactions/export", owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="transactions-\d{8}\.csv"$`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", w.Header().Get("X-Export-Rows"))

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvio.ExportColumns, records[0])
	assert.Equal(t, "2026-03-14", records[1][0])
	assert.Equal(t, "expense", records[1][1])
	assert.Contains(t, records[1], "Coffee, beans")

	t.Run("inverted range", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/transactions/export?from_date=2026-03-20&to_date=2026-03-01", owner, nil)
		assert.Equal(t, "INVALID_DATE_RANGE", errorCode(t, w, http.StatusBadRequest))
	})

	t.Run("upload without storage", func(t *testing.T) {
		w := app.do(http.MethodPost, "/api/v1/transactions/export/upload", owner, nil)
		assert.Equal(t, dto.ErrCodeServiceUnavailable, errorCode(t, w, http.StatusServiceUnavailable))
	})
}

func TestTransactionHandler_Statement(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	acc := app.createAccount(owner, "Checking", "USD", "100")
	app.createTransaction(owner, map[string]any{
		"account_id":  acc.ID,
		"type":        "income",
		"amount":      "50",
		"description": "Refund",
		"date":        "2026-03-10T12:00:00Z",
	})
	base := "/api/v1/transactions/statement?account_id=" + acc.ID.String()

	t.Run("html", func(t *testing.T) {
		w := app.do(http.MethodGet, base+"&month=2026-03&format=html", owner, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<h1>Checking</h1>")
		assert.Contains(t, w.Body.String(), "Refund")
	})

	t.Run("pdf without a renderer", func(t *testing.T) {
		w := app.do(http.MethodGet, base+"&month=2026-03", owner, nil)
		assert.Equal(t, dto.ErrCodeServiceUnavailable, errorCode(t, w, http.StatusServiceUnavailable))
	})

	t.Run("malformed month", func(t *testing.T) {
		w := app.do(http.MethodGet, base+"&month=2026-13&format=html", owner, nil)
		assert.Equal(t, "INVALID_MONTH", errorCode(t, w, http.StatusBadRequest))
	})

	t.Run("another owner", func(t *testing.T) {
		w := app.do(http.MethodGet, base+"&month=2026-03&format=html", uuid.New(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func importRequest(t *testing.T, accountID, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if accountID != "" {
		require.NoError(t, mw.WriteField("account_id", accountID))
	}
	if content != "" {
		part, err := mw.CreateFormFile("file", "bank.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTransactionHandler_Import(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()
	acc := app.createAccount(owner, "Checking", "USD", "100")
	app.createCategory(owner, "Groceries", "expense")

	content := strings.Join([]string{
		"date,amount,category,description",
		"2026-03-01,-40.00,groceries,Market",
		"2026-03-02,250,,Refund",
		"not-a-date,10,,Broken",
		"2026-03-03,-5,Unknown bucket,Snack",
	}, "\n")

	w := app.serve(importRequest(t, acc.ID.String(), content), owner)
	env := decode[txnapp.ImportResponse](t, w, http.StatusOK)
	assert.Equal(t, 3, env.Data.Imported)
	assert.Equal(t, 1, env.Data.Failed)
	assert.Equal(t, 1, env.Data.Uncategorized)
	require.Len(t, env.Data.Errors, 1)
	assert.Equal(t, 4, env.Data.Errors[0].Row)

	assert.Equal(t, "305.00", app.balance(owner, acc.ID))

	t.Run("missing file", func(t *testing.T) {
		w := app.serve(importRequest(t, acc.ID.String(), ""), owner)
		assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w, http.StatusBadRequest))
	})

	t.Run("bad account id", func(t *testing.T) {
		w := app.serve(importRequest(t, "nope", content), owner)
		assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w, http.StatusBadRequest))
	})

	t.Run("foreign account", func(t *testing.T) {
		w := app.serve(importRequest(t, acc.ID.String(), content), uuid.New())
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w, http.StatusNotFound))
	})

	t.Run("missing required column", func(t *testing.T) {
		w := app.serve(importRequest(t, acc.ID.String(), "description,amount\nx,1"), owner)
		assert.Equal(t, "INVALID_IMPORT_FILE", errorCode(t, w, http.StatusBadRequest))
	})
}
