package transaction

import (
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/fintrack/backend/internal/infrastructure/csvio"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest creates or replaces a ledger entry. Currency defaults to
// the account currency; DestinationAmount defaults to the converted amount.
type TransactionRequest struct {
	AccountID            uuid.UUID        `json:"account_id" binding:"required"`
	CategoryID           *uuid.UUID       `json:"category_id"`
	Type                 string           `json:"type" binding:"required,oneof=expense income transfer"`
	Amount               decimal.Decimal  `json:"amount" binding:"required"`
	Currency             string           `json:"currency" binding:"omitempty,currency"`
	DestinationAccountID *uuid.UUID       `json:"destination_account_id"`
	DestinationAmount    *decimal.Decimal `json:"destination_amount"`
	Description          string           `json:"description" binding:"max=255"`
	Notes                string           `json:"notes"`
	Date                 time.Time        `json:"date" binding:"required"`
	SubscriptionID       *uuid.UUID       `json:"-"`
}

// TransactionListFilter represents transaction list query parameters
type TransactionListFilter struct {
	Search     string     `form:"search"`
	AccountID  string     `form:"account_id" binding:"omitempty,uuid"`
	CategoryID string     `form:"category_id" binding:"omitempty,uuid"`
	Type       string     `form:"type" binding:"omitempty,oneof=expense income transfer"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter builds the repository filter
func (f TransactionListFilter) ToDomainFilter() transaction.TransactionFilter {
	out := transaction.TransactionFilter{
		Filter:     sharedFilter(f),
		AccountID:  shared.OptionalID(f.AccountID),
		CategoryID: shared.OptionalID(f.CategoryID),
		FromDate:   f.FromDate,
		ToDate:     f.ToDate,
	}
	if f.Type != "" {
		t := transaction.TransactionType(f.Type)
		out.Type = &t
	}
	return out
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID                   uuid.UUID       `json:"id"`
	AccountID            uuid.UUID       `json:"account_id"`
	CategoryID           *uuid.UUID      `json:"category_id"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	ConvertedAmount      decimal.Decimal `json:"converted_amount"`
	DestinationAccountID *uuid.UUID      `json:"destination_account_id,omitempty"`
	DestinationAmount    decimal.Decimal `json:"destination_amount"`
	Description          string          `json:"description"`
	Notes                string          `json:"notes"`
	Date                 time.Time       `json:"date"`
	SubscriptionID       *uuid.UUID      `json:"subscription_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a domain transaction to a response
func ToTransactionResponse(t *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                   t.ID,
		AccountID:            t.AccountID,
		CategoryID:           t.CategoryID,
		Type:                 t.Type.String(),
		Amount:               t.Amount,
		Currency:             t.Currency.String(),
		ConvertedAmount:      t.ConvertedAmount,
		DestinationAccountID: t.DestinationAccountID,
		DestinationAmount:    t.DestinationAmount,
		Description:          t.Description,
		Notes:                t.Notes,
		Date:                 t.Date,
		SubscriptionID:       t.SubscriptionID,
		CreatedAt:            t.CreatedAt,
	}
}

// ExportQuery narrows a CSV export. Empty fields export everything.
type ExportQuery struct {
	AccountID string     `form:"account_id" binding:"omitempty,uuid"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// ExportUploadResponse points at an export kept in object storage
type ExportUploadResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Rows      int       `json:"rows"`
}

// ImportResponse summarizes a CSV import
type ImportResponse struct {
	Imported        int              `json:"imported"`
	Failed          int              `json:"failed"`
	Uncategorized   int              `json:"uncategorized"` // category given but not matched
	Errors          []csvio.RowError `json:"errors"`
	ErrorsTruncated bool             `json:"errors_truncated,omitempty"`
}

// StatementQuery selects one account and calendar month
type StatementQuery struct {
	AccountID string `form:"account_id" binding:"required,uuid"`
	Month     string `form:"month" binding:"required"` // YYYY-MM
	Format    string `form:"format" binding:"omitempty,oneof=pdf html"`
}

// StatementLine is one entry on a statement; Amount is signed in the
// account's currency and Balance is the running balance after it
type StatementLine struct {
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// Statement summarises one account over [PeriodStart, PeriodEnd)
type Statement struct {
	AccountID      uuid.UUID       `json:"account_id"`
	AccountName    string          `json:"account_name"`
	Currency       string          `json:"currency"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	TotalIn        decimal.Decimal `json:"total_in"`
	TotalOut       decimal.Decimal `json:"total_out"`
	Lines          []StatementLine `json:"lines"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Title names the statement, e.g. "Checking statement 2026-03"
func (s *Statement) Title() string {
	return s.AccountName + " statement " + s.PeriodStart.Format("2006-01")
}

// FileName is the download name for the printed statement
func (s *Statement) FileName(ext string) string {
	return "statement-" + s.PeriodStart.Format("2006-01") + "-" + s.AccountID.String()[:8] + "." + ext
}
