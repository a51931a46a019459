package subscription

import (
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	EventTypeSubscriptionCreated   = "subscription.created"
	EventTypeSubscriptionUpdated   = "subscription.updated"
	EventTypeSubscriptionPaused    = "subscription.paused"
	EventTypeSubscriptionResumed   = "subscription.resumed"
	EventTypeSubscriptionCancelled = "subscription.cancelled"
	EventTypeSubscriptionDeleted   = "subscription.deleted"
	EventTypeSubscriptionRenewed   = "subscription.renewed"
)

var subscriptionVerbs = map[string]string{
	EventTypeSubscriptionCreated:   "Added",
	EventTypeSubscriptionUpdated:   "Updated",
	EventTypeSubscriptionPaused:    "Paused",
	EventTypeSubscriptionResumed:   "Resumed",
	EventTypeSubscriptionCancelled: "Cancelled",
	EventTypeSubscriptionDeleted:   "Deleted",
	EventTypeSubscriptionRenewed:   "Renewed",
}

// SubscriptionEvent is raised on subscription lifecycle changes
type SubscriptionEvent struct {
	shared.BaseDomainEvent
	Name            string               `json:"name"`
	Amount          decimal.Decimal      `json:"amount"`
	Currency        valueobject.Currency `json:"currency"`
	Status          Status               `json:"status"`
	NextRenewalDate time.Time            `json:"next_renewal_date"`
}

// Description implements shared.DescribedEvent
func (e *SubscriptionEvent) Description() string {
	return fmt.Sprintf("%s subscription %s", subscriptionVerbs[e.EventType()], e.Name)
}

// NewSubscriptionEvent creates a lifecycle event of the given type
func NewSubscriptionEvent(eventType string, s *Subscription) *SubscriptionEvent {
	return &SubscriptionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Subscription", s.ID, s.OwnerID),
		Name:            s.Name,
		Amount:          s.Amount,
		Currency:        s.Currency,
		Status:          s.Status,
		NextRenewalDate: s.NextRenewalDate,
	}
}

// SubscriptionRenewedEvent is raised when renewal periods are booked
type SubscriptionRenewedEvent struct {
	SubscriptionEvent
	Periods      int       `json:"periods"`
	PreviousDate time.Time `json:"previous_date"`
}

// Description implements shared.DescribedEvent
func (e *SubscriptionRenewedEvent) Description() string {
	if e.Periods > 1 {
		return fmt.Sprintf("Renewed subscription %s for %d periods", e.Name, e.Periods)
	}
	return fmt.Sprintf("Renewed subscription %s", e.Name)
}

// NewSubscriptionRenewedEvent creates a new SubscriptionRenewedEvent
func NewSubscriptionRenewedEvent(s *Subscription, r *Renewal) *SubscriptionRenewedEvent {
	return &SubscriptionRenewedEvent{
		SubscriptionEvent: *NewSubscriptionEvent(EventTypeSubscriptionRenewed, s),
		Periods:           len(r.ChargeDates),
		PreviousDate:      r.Previous,
	}
}
