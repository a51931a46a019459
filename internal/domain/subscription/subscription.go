package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a subscription
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusPaused || s == StatusCancelled
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanPause returns true if the subscription can be paused
func (s Status) CanPause() bool {
	return s == StatusActive
}

// CanResume returns true if the subscription can be resumed
func (s Status) CanResume() bool {
	return s == StatusPaused
}

// CanCancel returns true if the subscription can be cancelled
func (s Status) CanCancel() bool {
	return s != StatusCancelled
}

// MaxNotifyDaysBefore bounds the per-subscription reminder window
const MaxNotifyDaysBefore = 30

// maxCatchUpPeriods bounds how many missed periods one renewal run books
const maxCatchUpPeriods = 400

// Subscription is a recurring scheduled expense with a renewal cadence
type Subscription struct {
	shared.OwnedAggregateRoot
	Name             string               `json:"name"`
	AccountID        *uuid.UUID           `json:"account_id"`
	CategoryID       *uuid.UUID           `json:"category_id"`
	Amount           decimal.Decimal      `json:"amount"`
	Currency         valueobject.Currency `json:"currency"`
	Frequency        Frequency            `json:"frequency"`
	Status           Status               `json:"status"`
	StartDate        time.Time            `json:"start_date"`
	NextRenewalDate  time.Time            `json:"next_renewal_date"`
	AutoRenew        bool                 `json:"auto_renew"`
	NotifyDaysBefore int                  `json:"notify_days_before"`
	LastRenewedAt    *time.Time           `json:"last_renewed_at"`
	CancelledAt      *time.Time           `json:"cancelled_at"`
	Notes            string               `json:"notes"`
}

// Params carries the editable values of a subscription
type Params struct {
	Name             string
	AccountID        *uuid.UUID
	CategoryID       *uuid.UUID
	Amount           decimal.Decimal
	Currency         valueobject.Currency
	Frequency        Frequency
	StartDate        time.Time
	NextRenewalDate  *time.Time // defaults to StartDate
	AutoRenew        bool
	NotifyDaysBefore int
	Notes            string
}

// NewSubscription creates an active subscription
func NewSubscription(ownerID uuid.UUID, p Params) (*Subscription, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrForbidden
	}
	s := &Subscription{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Status:             StatusActive,
	}
	if err := s.apply(p); err != nil {
		return nil, err
	}
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionCreated, s))
	return s, nil
}

// Update changes the editable values
func (s *Subscription) Update(p Params) error {
	if s.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled subscriptions cannot be edited")
	}
	if err := s.apply(p); err != nil {
		return err
	}
	s.Touch()
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionUpdated, s))
	return nil
}

func (s *Subscription) apply(p Params) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Subscription name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Subscription name cannot exceed 100 characters")
	}
	if !p.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !p.Currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not valid", p.Currency))
	}
	if !p.Frequency.IsValid() {
		return shared.NewDomainError("INVALID_FREQUENCY", fmt.Sprintf("Frequency %q is not valid", p.Frequency))
	}
	if p.StartDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Start date is required")
	}
	if p.NotifyDaysBefore < 0 || p.NotifyDaysBefore > MaxNotifyDaysBefore {
		return shared.NewDomainError("INVALID_NOTIFY_DAYS", fmt.Sprintf("Notify days must be between 0 and %d", MaxNotifyDaysBefore))
	}
	if p.AutoRenew && (p.AccountID == nil || *p.AccountID == uuid.Nil) {
		return shared.NewDomainError("INVALID_ACCOUNT", "Auto renewal needs an account to charge")
	}
	next := p.StartDate
	if p.NextRenewalDate != nil && !p.NextRenewalDate.IsZero() {
		next = *p.NextRenewalDate
	}
	if next.Before(p.StartDate) {
		return shared.NewDomainError("INVALID_DATE", "Next renewal cannot be before the start date")
	}

	s.Name = name
	s.AccountID = p.AccountID
	s.CategoryID = p.CategoryID
	s.Amount = p.Amount
	s.Currency = p.Currency
	s.Frequency = p.Frequency
	s.StartDate = p.StartDate
	s.NextRenewalDate = next
	s.AutoRenew = p.AutoRenew
	s.NotifyDaysBefore = p.NotifyDaysBefore
	s.Notes = strings.TrimSpace(p.Notes)
	return nil
}

// Pause stops renewals until Resume
func (s *Subscription) Pause() error {
	if !s.Status.CanPause() {
		return invalidTransition(s.Status, StatusPaused)
	}
	s.Status = StatusPaused
	s.Touch()
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionPaused, s))
	return nil
}

// Resume reactivates a paused subscription. Periods that elapsed while paused
// are skipped rather than charged.
func (s *Subscription) Resume(now time.Time) error {
	if !s.Status.CanResume() {
		return invalidTransition(s.Status, StatusActive)
	}
	for i := 0; !s.NextRenewalDate.After(now) && i < maxCatchUpPeriods; i++ {
		s.NextRenewalDate = s.Frequency.Next(s.NextRenewalDate)
	}
	s.Status = StatusActive
	s.Touch()
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionResumed, s))
	return nil
}

// Cancel ends the subscription permanently
func (s *Subscription) Cancel() error {
	if !s.Status.CanCancel() {
		return invalidTransition(s.Status, StatusCancelled)
	}
	now := time.Now()
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	s.AddDomainEvent(NewSubscriptionEvent(EventTypeSubscriptionCancelled, s))
	return nil
}

func invalidTransition(from, to Status) error {
	return shared.NewDomainError("INVALID_STATE_TRANSITION", fmt.Sprintf("Cannot move subscription from %s to %s", from, to))
}

// IsDue returns true if the subscription is active and its renewal date has passed
func (s *Subscription) IsDue(now time.Time) bool {
	return s.Status == StatusActive && !s.NextRenewalDate.After(now)
}

// ReminderWindow is how far ahead of a renewal a reminder is sent. A zero
// NotifyDaysBefore falls back to the global lookahead.
func (s *Subscription) ReminderWindow(defaultLookahead time.Duration) time.Duration {
	if s.NotifyDaysBefore > 0 {
		return time.Duration(s.NotifyDaysBefore) * 24 * time.Hour
	}
	return defaultLookahead
}

// IsUpcoming returns true if an active subscription renews within its reminder window
func (s *Subscription) IsUpcoming(now time.Time, defaultLookahead time.Duration) bool {
	if s.Status != StatusActive || !s.NextRenewalDate.After(now) {
		return false
	}
	return !s.NextRenewalDate.After(now.Add(s.ReminderWindow(defaultLookahead)))
}

// Renewal describes one renew operation
type Renewal struct {
	// ChargeDates are the renewal dates that elapsed, oldest first
	ChargeDates []time.Time
	Previous    time.Time
	Next        time.Time
}

// Renew books every elapsed period and advances NextRenewalDate until it is
// strictly after now.
func (s *Subscription) Renew(now time.Time) (*Renewal, error) {
	if s.Status != StatusActive {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot renew a %s subscription", s.Status))
	}
	if s.NextRenewalDate.After(now) {
		return nil, shared.NewDomainError("NOT_DUE", "Subscription is not due for renewal")
	}

	r := &Renewal{Previous: s.NextRenewalDate}
	next := s.NextRenewalDate
	for !next.After(now) && len(r.ChargeDates) < maxCatchUpPeriods {
		r.ChargeDates = append(r.ChargeDates, next)
		next = s.Frequency.Next(next)
	}
	for !next.After(now) {
		next = s.Frequency.Next(next)
	}
	r.Next = next

	renewedAt := now
	s.NextRenewalDate = next
	s.LastRenewedAt = &renewedAt
	s.Touch()
	s.AddDomainEvent(NewSubscriptionRenewedEvent(s, r))
	return r, nil
}

// RenewEarly books the upcoming period now and advances the renewal date by
// exactly one period. Used when the user pays ahead of the due date.
func (s *Subscription) RenewEarly(now time.Time) (*Renewal, error) {
	if s.Status != StatusActive {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot renew a %s subscription", s.Status))
	}
	if !s.NextRenewalDate.After(now) {
		return s.Renew(now)
	}
	r := &Renewal{
		ChargeDates: []time.Time{now},
		Previous:    s.NextRenewalDate,
		Next:        s.Frequency.Next(s.NextRenewalDate),
	}
	renewedAt := now
	s.NextRenewalDate = r.Next
	s.LastRenewedAt = &renewedAt
	s.Touch()
	s.AddDomainEvent(NewSubscriptionRenewedEvent(s, r))
	return r, nil
}

// Price is the amount charged each period
func (s *Subscription) Price() valueobject.Money {
	m, _ := valueobject.NewMoney(s.Amount, s.Currency)
	return m
}

// MonthlyCost is the average monthly amount in the subscription currency
func (s *Subscription) MonthlyCost() decimal.Decimal {
	return s.Amount.Mul(s.Frequency.MonthlyFactor())
}
