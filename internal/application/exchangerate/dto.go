package exchangerate

import (
	"time"

	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/shopspring/decimal"
)

// UpsertRateRequest sets the rate of one currency pair
type UpsertRateRequest struct {
	FromCurrency string          `json:"from_currency" binding:"required,currency"`
	ToCurrency   string          `json:"to_currency" binding:"required,currency,nefield=FromCurrency"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
}

// ConvertQuery converts an amount between two currencies
type ConvertQuery struct {
	Amount decimal.Decimal `form:"amount" binding:"required"`
	From   string          `form:"from" binding:"required,currency"`
	To     string          `form:"to" binding:"required,currency"`
}

// ExchangeRateResponse represents a stored rate
type ExchangeRateResponse struct {
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	FetchedAt    time.Time       `json:"fetched_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ConvertResponse is the result of a conversion
type ConvertResponse struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
	Result decimal.Decimal `json:"result"`
	Rate   decimal.Decimal `json:"rate"`
	Method string          `json:"method"`
}

// RefreshReport summarizes one feed refresh
type RefreshReport struct {
	Base    string `json:"base"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}

// ToExchangeRateResponse converts a domain rate to a response
func ToExchangeRateResponse(r *exchangerate.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		FromCurrency: r.FromCurrency.String(),
		ToCurrency:   r.ToCurrency.String(),
		Rate:         r.Rate,
		Source:       r.Source,
		FetchedAt:    r.FetchedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
