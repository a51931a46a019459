package subscription

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/google/uuid"
)

// SubscriptionFilter defines filtering options for subscription queries
type SubscriptionFilter struct {
	shared.Filter
	Status    *Status
	Frequency *Frequency
	AccountID *uuid.UUID
}

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Subscription, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter SubscriptionFilter) ([]Subscription, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter SubscriptionFilter) (int64, error)
	Save(ctx context.Context, subscription *Subscription) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// FindDue returns active subscriptions of every owner whose renewal date is at or before now
	FindDue(ctx context.Context, now time.Time, limit int) ([]Subscription, error)
	// FindRenewingBetween returns active subscriptions of every owner renewing in (from, to]
	FindRenewingBetween(ctx context.Context, from, to time.Time) ([]Subscription, error)
	// FindActiveForOwner returns all active subscriptions of one owner
	FindActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]Subscription, error)

	// SaveRenewal persists the advanced subscription, the booked ledger entries and
	// their balance deltas in one database transaction
	SaveRenewal(ctx context.Context, subscription *Subscription, entries []*transaction.Transaction, deltas []account.BalanceDelta) error
}
