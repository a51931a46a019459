package investment

import (
	"fmt"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	EventTypeInvestmentCreated      = "investment.created"
	EventTypeInvestmentUpdated      = "investment.updated"
	EventTypeInvestmentDeleted      = "investment.deleted"
	EventTypeInvestmentPriceUpdated = "investment.price_updated"
)

// InvestmentEvent is raised on investment changes
type InvestmentEvent struct {
	shared.BaseDomainEvent
	Name     string               `json:"name"`
	Symbol   string               `json:"symbol"`
	Currency valueobject.Currency `json:"currency"`
}

// Description implements shared.DescribedEvent
func (e *InvestmentEvent) Description() string {
	switch e.EventType() {
	case EventTypeInvestmentCreated:
		return fmt.Sprintf("Added investment %s", e.Name)
	case EventTypeInvestmentDeleted:
		return fmt.Sprintf("Removed investment %s", e.Name)
	default:
		return fmt.Sprintf("Updated investment %s", e.Name)
	}
}

// NewInvestmentEvent creates an investment event of the given type
func NewInvestmentEvent(eventType string, i *Investment) *InvestmentEvent {
	return &InvestmentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Investment", i.ID, i.OwnerID),
		Name:            i.Name,
		Symbol:          i.Symbol,
		Currency:        i.Currency,
	}
}

// InvestmentPriceUpdatedEvent is raised when the market price changes
type InvestmentPriceUpdatedEvent struct {
	InvestmentEvent
	OldPrice decimal.Decimal `json:"old_price"`
	NewPrice decimal.Decimal `json:"new_price"`
}

// Description implements shared.DescribedEvent
func (e *InvestmentPriceUpdatedEvent) Description() string {
	return fmt.Sprintf("Price of %s changed from %s to %s %s",
		e.Name, e.OldPrice.StringFixed(2), e.NewPrice.StringFixed(2), e.Currency)
}

// NewInvestmentPriceUpdatedEvent creates a new InvestmentPriceUpdatedEvent
func NewInvestmentPriceUpdatedEvent(i *Investment, oldPrice decimal.Decimal) *InvestmentPriceUpdatedEvent {
	return &InvestmentPriceUpdatedEvent{
		InvestmentEvent: *NewInvestmentEvent(EventTypeInvestmentPriceUpdated, i),
		OldPrice:        oldPrice,
		NewPrice:        i.CurrentPrice,
	}
}
