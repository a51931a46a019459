package transaction

import (
	"fmt"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
)

// TransactionEvent is raised when a ledger entry is created, edited or removed
type TransactionEvent struct {
	shared.BaseDomainEvent
	AccountID       uuid.UUID            `json:"account_id"`
	TransactionType TransactionType      `json:"transaction_type"`
	Amount          decimal.Decimal      `json:"amount"`
	Currency        valueobject.Currency `json:"currency"`
	Label           string               `json:"label"`
}

// Description implements shared.DescribedEvent
func (e *TransactionEvent) Description() string {
	verb := "Updated"
	switch e.EventType() {
	case EventTypeTransactionCreated:
		verb = "Added"
	case EventTypeTransactionDeleted:
		verb = "Deleted"
	}
	label := e.Label
	if label == "" {
		label = string(e.TransactionType)
	}
	return fmt.Sprintf("%s %s of %s %s", verb, label, e.Amount.StringFixed(2), e.Currency)
}

func newTransactionEvent(eventType string, t *Transaction) *TransactionEvent {
	return &TransactionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Transaction", t.ID, t.OwnerID),
		AccountID:       t.AccountID,
		TransactionType: t.Type,
		Amount:          t.Amount,
		Currency:        t.Currency,
		Label:           t.Description,
	}
}

// NewTransactionCreatedEvent creates the event raised by NewTransaction
func NewTransactionCreatedEvent(t *Transaction) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionCreated, t)
}

// NewTransactionUpdatedEvent creates the event raised by Update
func NewTransactionUpdatedEvent(t *Transaction) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionUpdated, t)
}

// NewTransactionDeletedEvent creates the event raised by MarkDeleted
func NewTransactionDeletedEvent(t *Transaction) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionDeleted, t)
}
