package goal

import (
	"fmt"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	EventTypeGoalCreated       = "goal.created"
	EventTypeGoalUpdated       = "goal.updated"
	EventTypeGoalDeleted       = "goal.deleted"
	EventTypeGoalAmountChanged = "goal.amount_changed"
	EventTypeGoalCompleted     = "goal.completed"
	EventTypeGoalReopened      = "goal.reopened"
)

// GoalEvent is raised on goal changes
type GoalEvent struct {
	shared.BaseDomainEvent
	Name          string               `json:"name"`
	TargetAmount  decimal.Decimal      `json:"target_amount"`
	CurrentAmount decimal.Decimal      `json:"current_amount"`
	Currency      valueobject.Currency `json:"currency"`
}

// Description implements shared.DescribedEvent
func (e *GoalEvent) Description() string {
	switch e.EventType() {
	case EventTypeGoalCreated:
		return fmt.Sprintf("Created goal %s", e.Name)
	case EventTypeGoalDeleted:
		return fmt.Sprintf("Deleted goal %s", e.Name)
	case EventTypeGoalCompleted:
		return fmt.Sprintf("Reached goal %s", e.Name)
	case EventTypeGoalReopened:
		return fmt.Sprintf("Goal %s dropped below its target", e.Name)
	default:
		return fmt.Sprintf("Updated goal %s", e.Name)
	}
}

// NewGoalEvent creates a goal event of the given type
func NewGoalEvent(eventType string, g *Goal) *GoalEvent {
	return &GoalEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Goal", g.ID, g.OwnerID),
		Name:            g.Name,
		TargetAmount:    g.TargetAmount,
		CurrentAmount:   g.CurrentAmount,
		Currency:        g.Currency,
	}
}

// GoalAmountChangedEvent is raised on contributions and withdrawals
type GoalAmountChangedEvent struct {
	GoalEvent
	Delta decimal.Decimal `json:"delta"`
}

// Description implements shared.DescribedEvent
func (e *GoalAmountChangedEvent) Description() string {
	if e.Delta.IsNegative() {
		return fmt.Sprintf("Withdrew %s %s from goal %s", e.Delta.Abs().StringFixed(2), e.Currency, e.Name)
	}
	return fmt.Sprintf("Added %s %s to goal %s", e.Delta.StringFixed(2), e.Currency, e.Name)
}

// NewGoalAmountChangedEvent creates a new GoalAmountChangedEvent
func NewGoalAmountChangedEvent(g *Goal, delta decimal.Decimal) *GoalAmountChangedEvent {
	return &GoalAmountChangedEvent{
		GoalEvent: *NewGoalEvent(EventTypeGoalAmountChanged, g),
		Delta:     delta,
	}
}
