package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/investment"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentModel is the persistence model for the Investment aggregate
type InvestmentModel struct {
	OwnedAggregateModel
	Name           string                    `gorm:"type:varchar(100);not null"`
	Symbol         string                    `gorm:"type:varchar(20)"`
	Type           investment.InvestmentType `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal           `gorm:"type:decimal(24,8);not null"`
	PurchasePrice  decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	CurrentPrice   decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Currency       valueobject.Currency      `gorm:"type:varchar(3);not null"`
	PurchaseDate   time.Time                 `gorm:"not null"`
	PriceUpdatedAt *time.Time
}

// TableName returns the table name for GORM
func (InvestmentModel) TableName() string {
	return "investments"
}

// ToDomain converts the model to a domain Investment
func (m *InvestmentModel) ToDomain() *investment.Investment {
	return &investment.Investment{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Name:               m.Name,
		Symbol:             m.Symbol,
		Type:               m.Type,
		Quantity:           m.Quantity,
		PurchasePrice:      m.PurchasePrice,
		CurrentPrice:       m.CurrentPrice,
		Currency:           m.Currency,
		PurchaseDate:       m.PurchaseDate,
		PriceUpdatedAt:     m.PriceUpdatedAt,
	}
}

// InvestmentModelFromDomain creates a model from a domain Investment
func InvestmentModelFromDomain(i *investment.Investment) *InvestmentModel {
	m := &InvestmentModel{
		Name:           i.Name,
		Symbol:         i.Symbol,
		Type:           i.Type,
		Quantity:       i.Quantity,
		PurchasePrice:  i.PurchasePrice,
		CurrentPrice:   i.CurrentPrice,
		Currency:       i.Currency,
		PurchaseDate:   utc(i.PurchaseDate),
		PriceUpdatedAt: i.PriceUpdatedAt,
	}
	m.FromDomainOwned(i.OwnedAggregateRoot)
	return m
}

// InvestmentSnapshotModel stores one valuation per investment and day
type InvestmentSnapshotModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvestmentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_investment_date,priority:1"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date         time.Time       `gorm:"not null;uniqueIndex:idx_snapshot_investment_date,priority:2"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	Value        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvestmentSnapshotModel) TableName() string {
	return "investment_snapshots"
}

// ToDomain converts the model to a domain Snapshot
func (m *InvestmentSnapshotModel) ToDomain() investment.Snapshot {
	return investment.Snapshot{
		ID:           m.ID,
		InvestmentID: m.InvestmentID,
		OwnerID:      m.OwnerID,
		Date:         m.Date,
		Price:        m.Price,
		Quantity:     m.Quantity,
		Value:        m.Value,
		CreatedAt:    m.CreatedAt,
	}
}

// SnapshotModelFromDomain creates a model from a domain Snapshot
func SnapshotModelFromDomain(s *investment.Snapshot) *InvestmentSnapshotModel {
	return &InvestmentSnapshotModel{
		ID:           s.ID,
		InvestmentID: s.InvestmentID,
		OwnerID:      s.OwnerID,
		Date:         utc(s.Date),
		Price:        s.Price,
		Quantity:     s.Quantity,
		Value:        s.Value,
		CreatedAt:    s.CreatedAt,
	}
}
