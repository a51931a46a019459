package account

import (
	"fmt"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeAccountCreated         = "account.created"
	EventTypeAccountUpdated         = "account.updated"
	EventTypeAccountBalanceAdjusted = "account.balance_adjusted"
	EventTypeAccountArchived        = "account.archived"
	EventTypeAccountUnarchived      = "account.unarchived"
	EventTypeAccountDeleted         = "account.deleted"
)

// AggregateTypeAccount is the aggregate type name used in events
const AggregateTypeAccount = "Account"

// AccountEvent is raised on account lifecycle changes
type AccountEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
	summary   string
}

// Description implements shared.DescribedEvent
func (e *AccountEvent) Description() string {
	return e.summary
}

func newAccountEvent(eventType string, a *Account, summary string) *AccountEvent {
	return &AccountEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeAccount, a.ID, a.OwnerID),
		AccountID:       a.ID,
		Name:            a.Name,
		summary:         summary,
	}
}

// NewAccountCreatedEvent creates the event raised by NewAccount
func NewAccountCreatedEvent(a *Account) *AccountEvent {
	return newAccountEvent(EventTypeAccountCreated, a, fmt.Sprintf("Created account %s", a.Name))
}

// NewAccountUpdatedEvent creates the event raised by Update
func NewAccountUpdatedEvent(a *Account) *AccountEvent {
	return newAccountEvent(EventTypeAccountUpdated, a, fmt.Sprintf("Updated account %s", a.Name))
}

// NewAccountArchivedEvent creates the event raised by Archive
func NewAccountArchivedEvent(a *Account) *AccountEvent {
	return newAccountEvent(EventTypeAccountArchived, a, fmt.Sprintf("Archived account %s", a.Name))
}

// NewAccountUnarchivedEvent creates the event raised by Unarchive
func NewAccountUnarchivedEvent(a *Account) *AccountEvent {
	return newAccountEvent(EventTypeAccountUnarchived, a, fmt.Sprintf("Restored account %s", a.Name))
}

// NewAccountDeletedEvent creates the event raised when the account is removed
func NewAccountDeletedEvent(a *Account) *AccountEvent {
	return newAccountEvent(EventTypeAccountDeleted, a, fmt.Sprintf("Deleted account %s", a.Name))
}

// AccountBalanceAdjustedEvent is raised on a manual balance correction
type AccountBalanceAdjustedEvent struct {
	AccountEvent
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason"`
}

// NewAccountBalanceAdjustedEvent creates a new AccountBalanceAdjustedEvent
func NewAccountBalanceAdjustedEvent(a *Account, delta decimal.Decimal, reason string) *AccountBalanceAdjustedEvent {
	summary := fmt.Sprintf("Adjusted %s balance by %s %s", a.Name, delta.StringFixed(2), a.Currency)
	return &AccountBalanceAdjustedEvent{
		AccountEvent: *newAccountEvent(EventTypeAccountBalanceAdjusted, a, summary),
		Delta:        delta,
		Reason:       reason,
	}
}
