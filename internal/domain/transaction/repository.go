package transaction

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for transaction queries
type TransactionFilter struct {
	shared.Filter
	AccountID      *uuid.UUID // matches source or destination account
	CategoryID     *uuid.UUID
	SubscriptionID *uuid.UUID
	Type           *TransactionType
	FromDate       *time.Time
	ToDate         *time.Time
}

// CategoryTotal is an aggregated amount per category and currency
type CategoryTotal struct {
	CategoryID *uuid.UUID
	Currency   string
	Total      decimal.Decimal
}

// MonthlyTotal is an aggregated amount per month, type and account currency
type MonthlyTotal struct {
	Month    string // YYYY-MM
	Type     TransactionType
	Currency string
	Total    decimal.Decimal
}

// TransactionRepository defines the interface for transaction persistence.
// Every write also applies the given balance deltas in the same database transaction.
type TransactionRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter) ([]Transaction, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter) (int64, error)

	// Create inserts the entry and applies deltas atomically
	Create(ctx context.Context, txn *Transaction, deltas []account.BalanceDelta) error
	// Update saves the entry and applies deltas atomically
	Update(ctx context.Context, txn *Transaction, deltas []account.BalanceDelta) error
	// Delete removes the entry and applies deltas atomically
	Delete(ctx context.Context, txn *Transaction, deltas []account.BalanceDelta) error

	// SumByCategory totals converted amounts of one type per category in a date range,
	// grouped by the account currency
	SumByCategory(ctx context.Context, ownerID uuid.UUID, txType TransactionType, from, to time.Time) ([]CategoryTotal, error)
	// SumByMonth totals converted income and expense per month in a date range
	SumByMonth(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]MonthlyTotal, error)
}
