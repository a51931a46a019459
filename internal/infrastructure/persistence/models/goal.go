package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/goal"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// GoalModel is the persistence model for the Goal aggregate
type GoalModel struct {
	OwnedAggregateModel
	Name          string               `gorm:"type:varchar(100);not null"`
	TargetAmount  decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	CurrentAmount decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null"`
	Deadline      *time.Time
	IsCompleted   bool `gorm:"not null;default:false"`
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (GoalModel) TableName() string {
	return "goals"
}

// ToDomain converts the model to a domain Goal
func (m *GoalModel) ToDomain() *goal.Goal {
	return &goal.Goal{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Name:               m.Name,
		TargetAmount:       m.TargetAmount,
		CurrentAmount:      m.CurrentAmount,
		Currency:           m.Currency,
		Deadline:           m.Deadline,
		IsCompleted:        m.IsCompleted,
		CompletedAt:        m.CompletedAt,
	}
}

// GoalModelFromDomain creates a model from a domain Goal
func GoalModelFromDomain(g *goal.Goal) *GoalModel {
	m := &GoalModel{
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Currency:      g.Currency,
		Deadline:      g.Deadline,
		IsCompleted:   g.IsCompleted,
		CompletedAt:   g.CompletedAt,
	}
	m.FromDomainOwned(g.OwnedAggregateRoot)
	return m
}
