package investment

import (
	"time"

	"github.com/fintrack/backend/internal/domain/investment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentRequest creates or replaces an investment
type InvestmentRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=100"`
	Symbol        string           `json:"symbol" binding:"max=20"`
	Type          string           `json:"type" binding:"required,oneof=stock etf crypto bond fund other"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	Currency      string           `json:"currency" binding:"required,currency"`
	PurchaseDate  time.Time        `json:"purchase_date" binding:"required"`
}

// PriceRequest records a new market price
type PriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// InvestmentListFilter represents investment list query parameters
type InvestmentListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=stock etf crypto bond fund other"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SnapshotQuery selects a snapshot range; both ends default relative to today
type SnapshotQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// InvestmentResponse represents an investment in API responses
type InvestmentResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Symbol         string          `json:"symbol"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	Currency       string          `json:"currency"`
	PurchaseDate   time.Time       `json:"purchase_date"`
	CostBasis      decimal.Decimal `json:"cost_basis"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	Gain           decimal.Decimal `json:"gain"`
	GainPercent    decimal.Decimal `json:"gain_percent"`
	PriceUpdatedAt *time.Time      `json:"price_updated_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToInvestmentResponse converts a domain investment to a response
func ToInvestmentResponse(i *investment.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:             i.ID,
		Name:           i.Name,
		Symbol:         i.Symbol,
		Type:           string(i.Type),
		Quantity:       i.Quantity,
		PurchasePrice:  i.PurchasePrice,
		CurrentPrice:   i.CurrentPrice,
		Currency:       i.Currency.String(),
		PurchaseDate:   i.PurchaseDate,
		CostBasis:      i.CostBasis().Round(2),
		CurrentValue:   i.CurrentValue().Round(2),
		Gain:           i.Gain().Round(2),
		GainPercent:    i.GainPercent(),
		PriceUpdatedAt: i.PriceUpdatedAt,
		CreatedAt:      i.CreatedAt,
	}
}

// SnapshotResponse is one day of an investment's value history
type SnapshotResponse struct {
	Date     time.Time       `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}
