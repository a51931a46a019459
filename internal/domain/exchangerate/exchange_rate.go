package exchangerate

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rate sources
const (
	SourceManual = "manual"
	SourceFeed   = "feed"
)

// ExchangeRate says one unit of FromCurrency buys Rate units of ToCurrency.
// Rates are global reference data shared by every user.
type ExchangeRate struct {
	ID           uuid.UUID            `json:"id"`
	FromCurrency valueobject.Currency `json:"from_currency"`
	ToCurrency   valueobject.Currency `json:"to_currency"`
	Rate         decimal.Decimal      `json:"rate"`
	Source       string               `json:"source"`
	FetchedAt    time.Time            `json:"fetched_at"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewExchangeRate validates and creates a rate record
func NewExchangeRate(from, to valueobject.Currency, rate decimal.Decimal, source string, fetchedAt time.Time) (*ExchangeRate, error) {
	if !from.IsValid() || !to.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Invalid currency pair %s/%s", from, to))
	}
	if from == to {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "A rate needs two different currencies")
	}
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate must be positive")
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = SourceManual
	}
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	now := time.Now()
	return &ExchangeRate{
		ID:           uuid.New(),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Source:       source,
		FetchedAt:    fetchedAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Pair returns the "FROM/TO" label of the rate
func (r *ExchangeRate) Pair() string {
	return PairKey(r.FromCurrency, r.ToCurrency)
}

// PairKey formats a currency pair as "FROM/TO"
func PairKey(from, to valueobject.Currency) string {
	return string(from) + "/" + string(to)
}
