package investment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time record of an investment's value, one per day
type Snapshot struct {
	ID           uuid.UUID       `json:"id"`
	InvestmentID uuid.UUID       `json:"investment_id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Date         time.Time       `json:"date"`
	Price        decimal.Decimal `json:"price"`
	Quantity     decimal.Decimal `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewSnapshot builds the snapshot of inv for the calendar day containing day
func NewSnapshot(inv *Investment, day time.Time) *Snapshot {
	return &Snapshot{
		ID:           uuid.New(),
		InvestmentID: inv.ID,
		OwnerID:      inv.OwnerID,
		Date:         TruncateDay(day),
		Price:        inv.CurrentPrice,
		Quantity:     inv.Quantity,
		Value:        inv.CurrentValue(),
		CreatedAt:    time.Now(),
	}
}

// TruncateDay returns midnight UTC of the day containing t
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
