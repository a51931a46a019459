package goal

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings target. It is completed exactly while CurrentAmount >= TargetAmount.
type Goal struct {
	shared.OwnedAggregateRoot
	Name          string               `json:"name"`
	TargetAmount  decimal.Decimal      `json:"target_amount"`
	CurrentAmount decimal.Decimal      `json:"current_amount"`
	Currency      valueobject.Currency `json:"currency"`
	Deadline      *time.Time           `json:"deadline"`
	IsCompleted   bool                 `json:"is_completed"`
	CompletedAt   *time.Time           `json:"completed_at"`
}

// NewGoal creates a new goal; an initial amount at or above the target completes it immediately
func NewGoal(ownerID uuid.UUID, name string, target, initial decimal.Decimal, currency valueobject.Currency, deadline *time.Time) (*Goal, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrForbidden
	}
	if initial.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Current amount cannot be negative")
	}
	g := &Goal{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID), CurrentAmount: initial}
	if err := g.apply(name, target, currency, deadline); err != nil {
		return nil, err
	}
	g.AddDomainEvent(NewGoalEvent(EventTypeGoalCreated, g))
	g.recompute()
	return g, nil
}

// Update changes the descriptive fields and the target
func (g *Goal) Update(name string, target decimal.Decimal, currency valueobject.Currency, deadline *time.Time) error {
	if currency != g.Currency && !g.CurrentAmount.IsZero() {
		return shared.NewDomainError("CURRENCY_LOCKED", "Goal currency can only change while nothing is saved")
	}
	if err := g.apply(name, target, currency, deadline); err != nil {
		return err
	}
	g.Touch()
	g.AddDomainEvent(NewGoalEvent(EventTypeGoalUpdated, g))
	g.recompute()
	return nil
}

func (g *Goal) apply(name string, target decimal.Decimal, currency valueobject.Currency, deadline *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Goal name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Goal name cannot exceed 100 characters")
	}
	if !target.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Target amount must be positive")
	}
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not valid", currency))
	}
	g.Name = name
	g.TargetAmount = target
	g.Currency = currency
	g.Deadline = deadline
	return nil
}

// Contribute adds amount to the saved total
func (g *Goal) Contribute(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Contribution must be positive")
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.Touch()
	g.AddDomainEvent(NewGoalAmountChangedEvent(g, amount))
	g.recompute()
	return nil
}

// Withdraw removes amount from the saved total
func (g *Goal) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Withdrawal must be positive")
	}
	if amount.GreaterThan(g.CurrentAmount) {
		return shared.NewDomainError("INSUFFICIENT_BALANCE", "Cannot withdraw more than the saved amount")
	}
	g.CurrentAmount = g.CurrentAmount.Sub(amount)
	g.Touch()
	g.AddDomainEvent(NewGoalAmountChangedEvent(g, amount.Neg()))
	g.recompute()
	return nil
}

// recompute keeps IsCompleted equal to CurrentAmount >= TargetAmount and raises
// GoalCompleted on the false -> true edge.
func (g *Goal) recompute() {
	reached := g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
	switch {
	case reached && !g.IsCompleted:
		now := time.Now()
		g.IsCompleted = true
		g.CompletedAt = &now
		g.AddDomainEvent(NewGoalEvent(EventTypeGoalCompleted, g))
	case !reached && g.IsCompleted:
		g.IsCompleted = false
		g.CompletedAt = nil
		g.AddDomainEvent(NewGoalEvent(EventTypeGoalReopened, g))
	}
}

// Remaining returns how much is left to save, never negative
func (g *Goal) Remaining() decimal.Decimal {
	rem := g.TargetAmount.Sub(g.CurrentAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// Progress returns the completion percentage, capped at 100
func (g *Goal) Progress() decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return p
}

// IsOverdue returns true if the deadline passed before completion
func (g *Goal) IsOverdue(now time.Time) bool {
	return !g.IsCompleted && g.Deadline != nil && now.After(*g.Deadline)
}
