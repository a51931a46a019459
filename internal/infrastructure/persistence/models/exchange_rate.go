package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRateModel stores one rate per directed currency pair
type ExchangeRateModel struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key"`
	FromCurrency valueobject.Currency `gorm:"type:varchar(3);not null;uniqueIndex:idx_exchange_rates_pair,priority:1"`
	ToCurrency   valueobject.Currency `gorm:"type:varchar(3);not null;uniqueIndex:idx_exchange_rates_pair,priority:2"`
	Rate         decimal.Decimal      `gorm:"type:decimal(24,10);not null"`
	Source       string               `gorm:"type:varchar(20);not null"`
	FetchedAt    time.Time            `gorm:"not null"`
	CreatedAt    time.Time            `gorm:"not null"`
	UpdatedAt    time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

// ToDomain converts the model to a domain ExchangeRate
func (m *ExchangeRateModel) ToDomain() exchangerate.ExchangeRate {
	return exchangerate.ExchangeRate{
		ID:           m.ID,
		FromCurrency: m.FromCurrency,
		ToCurrency:   m.ToCurrency,
		Rate:         m.Rate,
		Source:       m.Source,
		FetchedAt:    m.FetchedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ExchangeRateModelFromDomain creates a model from a domain ExchangeRate
func ExchangeRateModelFromDomain(r *exchangerate.ExchangeRate) *ExchangeRateModel {
	return &ExchangeRateModel{
		ID:           r.ID,
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		Rate:         r.Rate,
		Source:       r.Source,
		FetchedAt:    r.FetchedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// All returns every model, in dependency order, for AutoMigrate in tests and
// sqlite mode
func All() []any {
	return []any{
		&UserModel{},
		&UserSettingsModel{},
		&AccountModel{},
		&CategoryModel{},
		&TransactionModel{},
		&SubscriptionModel{},
		&GoalModel{},
		&InvestmentModel{},
		&InvestmentSnapshotModel{},
		&NotificationModel{},
		&ActivityModel{},
		&ExchangeRateModel{},
	}
}
