package exchangerate

import (
	"context"

	"github.com/fintrack/backend/internal/domain/shared/valueobject"
)

// ExchangeRateRepository persists exchange rates and serves as the converter's RateProvider
type ExchangeRateRepository interface {
	RateProvider
	FindAll(ctx context.Context) ([]ExchangeRate, error)
	FindByPair(ctx context.Context, from, to valueobject.Currency) (*ExchangeRate, error)
	// Upsert inserts or updates the rate of (from, to)
	Upsert(ctx context.Context, rate *ExchangeRate) error
	DeleteByPair(ctx context.Context, from, to valueobject.Currency) error
}
