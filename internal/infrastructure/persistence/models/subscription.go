package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionModel is the persistence model for the Subscription aggregate
type SubscriptionModel struct {
	OwnedAggregateModel
	Name             string                 `gorm:"type:varchar(100);not null"`
	AccountID        *uuid.UUID             `gorm:"type:uuid;index"`
	CategoryID       *uuid.UUID             `gorm:"type:uuid"`
	Amount           decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Currency         valueobject.Currency   `gorm:"type:varchar(3);not null"`
	Frequency        subscription.Frequency `gorm:"type:varchar(20);not null"`
	Status           subscription.Status    `gorm:"type:varchar(20);not null;index:idx_subscriptions_status_next,priority:1"`
	StartDate        time.Time              `gorm:"not null"`
	NextRenewalDate  time.Time              `gorm:"not null;index:idx_subscriptions_status_next,priority:2"`
	AutoRenew        bool                   `gorm:"not null;default:false"`
	NotifyDaysBefore int                    `gorm:"not null;default:0"`
	LastRenewedAt    *time.Time
	CancelledAt      *time.Time
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the model to a domain Subscription
func (m *SubscriptionModel) ToDomain() *subscription.Subscription {
	return &subscription.Subscription{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Name:               m.Name,
		AccountID:          m.AccountID,
		CategoryID:         m.CategoryID,
		Amount:             m.Amount,
		Currency:           m.Currency,
		Frequency:          m.Frequency,
		Status:             m.Status,
		StartDate:          m.StartDate,
		NextRenewalDate:    m.NextRenewalDate,
		AutoRenew:          m.AutoRenew,
		NotifyDaysBefore:   m.NotifyDaysBefore,
		LastRenewedAt:      m.LastRenewedAt,
		CancelledAt:        m.CancelledAt,
		Notes:              m.Notes,
	}
}

// SubscriptionModelFromDomain creates a model from a domain Subscription
func SubscriptionModelFromDomain(s *subscription.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{
		Name:             s.Name,
		AccountID:        s.AccountID,
		CategoryID:       s.CategoryID,
		Amount:           s.Amount,
		Currency:         s.Currency,
		Frequency:        s.Frequency,
		Status:           s.Status,
		StartDate:        utc(s.StartDate),
		NextRenewalDate:  utc(s.NextRenewalDate),
		AutoRenew:        s.AutoRenew,
		NotifyDaysBefore: s.NotifyDaysBefore,
		LastRenewedAt:    utcPtr(s.LastRenewedAt),
		CancelledAt:      utcPtr(s.CancelledAt),
		Notes:            s.Notes,
	}
	m.FromDomainOwned(s.OwnedAggregateRoot)
	return m
}
