package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of balance-holding account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit,
		AccountTypeCash, AccountTypeInvestment:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// IsLiability returns true for accounts whose balance is usually owed (credit cards)
func (t AccountType) IsLiability() bool {
	return t == AccountTypeCredit
}

// Account is a user-owned balance holding entity (bank, card, cash, investment wrapper)
type Account struct {
	shared.OwnedAggregateRoot
	Name       string               `json:"name"`
	Type       AccountType          `json:"type"`
	Currency   valueobject.Currency `json:"currency"`
	Balance    decimal.Decimal      `json:"balance"`
	IsArchived bool                 `json:"is_archived"`
	ArchivedAt *time.Time           `json:"archived_at"`
}

// NewAccount creates a new account with an opening balance
func NewAccount(
	ownerID uuid.UUID,
	name string,
	accountType AccountType,
	currency valueobject.Currency,
	openingBalance decimal.Decimal,
) (*Account, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrForbidden
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Account type %q is not valid", accountType))
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not valid", currency))
	}

	a := &Account{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               strings.TrimSpace(name),
		Type:               accountType,
		Currency:           currency,
		Balance:            openingBalance,
	}
	a.AddDomainEvent(NewAccountCreatedEvent(a))
	return a, nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot exceed 100 characters")
	}
	return nil
}

// ErrCurrencyLocked is returned when the currency of an account in use changes
var ErrCurrencyLocked = shared.NewDomainError("CURRENCY_LOCKED",
	"Account currency can only change while the balance is zero and nothing references the account")

// Update changes the editable attributes. The currency can only change while
// the balance is zero; callers also check that no ledger entry or
// subscription references the account.
func (a *Account) Update(name string, accountType AccountType, currency valueobject.Currency) error {
	if err := validateName(name); err != nil {
		return err
	}
	if !accountType.IsValid() {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("Account type %q is not valid", accountType))
	}
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not valid", currency))
	}
	if currency != a.Currency && !a.Balance.IsZero() {
		return ErrCurrencyLocked
	}

	a.Name = strings.TrimSpace(name)
	a.Type = accountType
	a.Currency = currency
	a.Touch()
	a.AddDomainEvent(NewAccountUpdatedEvent(a))
	return nil
}

// ApplyDelta adds delta (positive or negative) to the balance
func (a *Account) ApplyDelta(delta decimal.Decimal) {
	a.Balance = a.Balance.Add(delta)
	a.Touch()
}

// AdjustBalance sets the balance to an absolute value and returns the delta applied
func (a *Account) AdjustBalance(newBalance decimal.Decimal, reason string) (decimal.Decimal, error) {
	if a.IsArchived {
		return decimal.Zero, ErrAccountArchived
	}
	delta := newBalance.Sub(a.Balance)
	a.Balance = newBalance
	a.Touch()
	a.AddDomainEvent(NewAccountBalanceAdjustedEvent(a, delta, reason))
	return delta, nil
}

// Archive hides the account from totals and pickers
func (a *Account) Archive() error {
	if a.IsArchived {
		return shared.NewDomainError("INVALID_STATE", "Account is already archived")
	}
	now := time.Now()
	a.IsArchived = true
	a.ArchivedAt = &now
	a.UpdatedAt = now
	a.AddDomainEvent(NewAccountArchivedEvent(a))
	return nil
}

// Unarchive restores an archived account
func (a *Account) Unarchive() error {
	if !a.IsArchived {
		return shared.NewDomainError("INVALID_STATE", "Account is not archived")
	}
	a.IsArchived = false
	a.ArchivedAt = nil
	a.Touch()
	a.AddDomainEvent(NewAccountUnarchivedEvent(a))
	return nil
}

// EnsureActive returns ErrAccountArchived when the account cannot take new entries
func (a *Account) EnsureActive() error {
	if a.IsArchived {
		return ErrAccountArchived
	}
	return nil
}

// ErrAccountArchived is returned when posting to an archived account
var ErrAccountArchived = shared.NewDomainError("ACCOUNT_ARCHIVED", "Account is archived")
