package investment

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentType is the asset class of a holding
type InvestmentType string

const (
	InvestmentTypeStock  InvestmentType = "stock"
	InvestmentTypeETF    InvestmentType = "etf"
	InvestmentTypeCrypto InvestmentType = "crypto"
	InvestmentTypeBond   InvestmentType = "bond"
	InvestmentTypeFund   InvestmentType = "fund"
	InvestmentTypeOther  InvestmentType = "other"
)

// IsValid checks if the type is a valid InvestmentType
func (t InvestmentType) IsValid() bool {
	switch t {
	case InvestmentTypeStock, InvestmentTypeETF, InvestmentTypeCrypto,
		InvestmentTypeBond, InvestmentTypeFund, InvestmentTypeOther:
		return true
	}
	return false
}

// Investment is a holding of some quantity of an asset
type Investment struct {
	shared.OwnedAggregateRoot
	Name           string               `json:"name"`
	Symbol         string               `json:"symbol"`
	Type           InvestmentType       `json:"type"`
	Quantity       decimal.Decimal      `json:"quantity"`
	PurchasePrice  decimal.Decimal      `json:"purchase_price"`
	CurrentPrice   decimal.Decimal      `json:"current_price"`
	Currency       valueobject.Currency `json:"currency"`
	PurchaseDate   time.Time            `json:"purchase_date"`
	PriceUpdatedAt *time.Time           `json:"price_updated_at"`
}

// Params carries the editable values of an investment
type Params struct {
	Name          string
	Symbol        string
	Type          InvestmentType
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	CurrentPrice  *decimal.Decimal // defaults to PurchasePrice
	Currency      valueobject.Currency
	PurchaseDate  time.Time
}

// NewInvestment creates a new holding
func NewInvestment(ownerID uuid.UUID, p Params) (*Investment, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrForbidden
	}
	inv := &Investment{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID)}
	if err := inv.apply(p); err != nil {
		return nil, err
	}
	inv.AddDomainEvent(NewInvestmentEvent(EventTypeInvestmentCreated, inv))
	return inv, nil
}

// Update replaces the editable values
func (i *Investment) Update(p Params) error {
	if p.CurrentPrice == nil {
		cur := i.CurrentPrice
		p.CurrentPrice = &cur
	}
	if err := i.apply(p); err != nil {
		return err
	}
	i.Touch()
	i.AddDomainEvent(NewInvestmentEvent(EventTypeInvestmentUpdated, i))
	return nil
}

func (i *Investment) apply(p Params) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Investment name cannot be empty")
	}
	if !p.Type.IsValid() {
		return shared.NewDomainError("INVALID_INVESTMENT_TYPE", fmt.Sprintf("Investment type %q is not valid", p.Type))
	}
	if !p.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.PurchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	current := p.PurchasePrice
	if p.CurrentPrice != nil {
		current = *p.CurrentPrice
	}
	if current.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Current price cannot be negative")
	}
	if !p.Currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not valid", p.Currency))
	}
	if p.PurchaseDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Purchase date is required")
	}
	i.Name = name
	i.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	i.Type = p.Type
	i.Quantity = p.Quantity
	i.PurchasePrice = p.PurchasePrice
	i.CurrentPrice = current
	i.Currency = p.Currency
	i.PurchaseDate = p.PurchaseDate
	return nil
}

// UpdatePrice records a new market price
func (i *Investment) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	now := time.Now()
	old := i.CurrentPrice
	i.CurrentPrice = price
	i.PriceUpdatedAt = &now
	i.UpdatedAt = now
	i.AddDomainEvent(NewInvestmentPriceUpdatedEvent(i, old))
	return nil
}

// CostBasis is quantity * purchase price
func (i *Investment) CostBasis() decimal.Decimal {
	return i.Quantity.Mul(i.PurchasePrice)
}

// CurrentValue is quantity * current price
func (i *Investment) CurrentValue() decimal.Decimal {
	return i.Quantity.Mul(i.CurrentPrice)
}

// Gain is current value minus cost basis
func (i *Investment) Gain() decimal.Decimal {
	return i.CurrentValue().Sub(i.CostBasis())
}

// GainPercent is the gain relative to cost basis in percent, rounded to 2 places
func (i *Investment) GainPercent() decimal.Decimal {
	basis := i.CostBasis()
	if basis.IsZero() {
		return decimal.Zero
	}
	return i.Gain().Div(basis).Mul(decimal.NewFromInt(100)).Round(2)
}

// Snapshot captures the holding's value for the given day
func (i *Investment) Snapshot(day time.Time) *Snapshot {
	return NewSnapshot(i, day)
}
