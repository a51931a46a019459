package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money movement
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeTransfer TransactionType = "transfer"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeIncome, TransactionTypeTransfer:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// Transaction is a single ledger entry against one account (two for transfers)
type Transaction struct {
	shared.OwnedAggregateRoot
	AccountID            uuid.UUID            `json:"account_id"`
	CategoryID           *uuid.UUID           `json:"category_id"`
	Type                 TransactionType      `json:"type"`
	Amount               decimal.Decimal      `json:"amount"`
	Currency             valueobject.Currency `json:"currency"`
	ConvertedAmount      decimal.Decimal      `json:"converted_amount"` // in the account's currency
	DestinationAccountID *uuid.UUID           `json:"destination_account_id"`
	DestinationAmount    decimal.Decimal      `json:"destination_amount"` // in the destination account's currency
	Description          string               `json:"description"`
	Notes                string               `json:"notes"`
	Date                 time.Time            `json:"date"`
	SubscriptionID       *uuid.UUID           `json:"subscription_id"`
}

// Params carries the values of a new or edited transaction. ConvertedAmount and
// DestinationAmount must already be expressed in the respective account currencies.
type Params struct {
	AccountID            uuid.UUID
	CategoryID           *uuid.UUID
	Type                 TransactionType
	Amount               decimal.Decimal
	Currency             valueobject.Currency
	ConvertedAmount      decimal.Decimal
	DestinationAccountID *uuid.UUID
	DestinationAmount    decimal.Decimal
	Description          string
	Notes                string
	Date                 time.Time
	SubscriptionID       *uuid.UUID
}

// NewTransaction creates a new ledger entry
func NewTransaction(ownerID uuid.UUID, p Params) (*Transaction, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrForbidden
	}
	t := &Transaction{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID)}
	if err := t.apply(p); err != nil {
		return nil, err
	}
	t.AddDomainEvent(NewTransactionCreatedEvent(t))
	return t, nil
}

// Update replaces the entry's values. Callers are expected to reverse the
// previous BalanceDeltas and apply the new ones in the same unit of work.
func (t *Transaction) Update(p Params) error {
	if err := t.apply(p); err != nil {
		return err
	}
	t.Touch()
	t.AddDomainEvent(NewTransactionUpdatedEvent(t))
	return nil
}

// MarkDeleted records the deletion event
func (t *Transaction) MarkDeleted() {
	t.AddDomainEvent(NewTransactionDeletedEvent(t))
}

func (t *Transaction) apply(p Params) error {
	if p.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account is required")
	}
	if !p.Type.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", fmt.Sprintf("Transaction type %q is not valid", p.Type))
	}
	if !p.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !p.Currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not valid", p.Currency))
	}
	if p.ConvertedAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Converted amount cannot be negative")
	}
	if p.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	description := strings.TrimSpace(p.Description)
	if len(description) > 255 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 255 characters")
	}

	switch p.Type {
	case TransactionTypeTransfer:
		if p.DestinationAccountID == nil || *p.DestinationAccountID == uuid.Nil {
			return shared.NewDomainError("INVALID_DESTINATION", "Transfers require a destination account")
		}
		if *p.DestinationAccountID == p.AccountID {
			return shared.NewDomainError("INVALID_DESTINATION", "Cannot transfer to the same account")
		}
		if p.DestinationAmount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Destination amount cannot be negative")
		}
	default:
		if p.DestinationAccountID != nil {
			return shared.NewDomainError("INVALID_DESTINATION", "Only transfers can have a destination account")
		}
		p.DestinationAmount = decimal.Zero
	}

	t.AccountID = p.AccountID
	t.CategoryID = p.CategoryID
	t.Type = p.Type
	t.Amount = p.Amount
	t.Currency = p.Currency
	t.ConvertedAmount = p.ConvertedAmount
	t.DestinationAccountID = p.DestinationAccountID
	t.DestinationAmount = p.DestinationAmount
	t.Description = description
	t.Notes = strings.TrimSpace(p.Notes)
	t.Date = p.Date
	t.SubscriptionID = p.SubscriptionID
	return nil
}

// IsTransfer returns true for transfers between two accounts
func (t *Transaction) IsTransfer() bool {
	return t.Type == TransactionTypeTransfer
}

// BalanceDeltas returns the balance changes this entry applies on creation.
// Deleting the entry applies account.Reverse of the same deltas.
func (t *Transaction) BalanceDeltas() []account.BalanceDelta {
	switch t.Type {
	case TransactionTypeIncome:
		return []account.BalanceDelta{{AccountID: t.AccountID, Amount: t.ConvertedAmount}}
	case TransactionTypeTransfer:
		return []account.BalanceDelta{
			{AccountID: t.AccountID, Amount: t.ConvertedAmount.Neg()},
			{AccountID: *t.DestinationAccountID, Amount: t.DestinationAmount},
		}
	default:
		return []account.BalanceDelta{{AccountID: t.AccountID, Amount: t.ConvertedAmount.Neg()}}
	}
}

// AccountIDs returns the accounts touched by this entry
func (t *Transaction) AccountIDs() []uuid.UUID {
	ids := []uuid.UUID{t.AccountID}
	if t.DestinationAccountID != nil {
		ids = append(ids, *t.DestinationAccountID)
	}
	return ids
}
