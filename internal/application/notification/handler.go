package notification

import (
	"context"
	"fmt"

	"github.com/fintrack/backend/internal/domain/goal"
	"github.com/fintrack/backend/internal/domain/notification"
	"github.com/fintrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// GoalCompletedHandler notifies a user when one of their goals reaches its target
type GoalCompletedHandler struct {
	repo   notification.NotificationRepository
	logger *zap.Logger
}

// NewGoalCompletedHandler creates a new GoalCompletedHandler
func NewGoalCompletedHandler(repo notification.NotificationRepository, logger *zap.Logger) *GoalCompletedHandler {
	return &GoalCompletedHandler{repo: repo, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *GoalCompletedHandler) EventTypes() []string {
	return []string{goal.EventTypeGoalCompleted}
}

// Handle implements shared.EventHandler
func (h *GoalCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*goal.GoalEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, event.EventType())
	}
	goalID := e.AggregateID()
	n, err := notification.NewNotification(e.OwnerID(), notification.TypeGoalCompleted,
		"Goal reached",
		fmt.Sprintf("You reached your goal %s of %s.", e.Name, e.Currency.Format(e.TargetAmount, "")),
		&goalID,
	)
	if err != nil {
		return err
	}
	// at most one per goal per day
	key := fmt.Sprintf("%s:%s:%s", notification.TypeGoalCompleted, goalID, e.OccurredAt().UTC().Format("2006-01-02"))
	created, err := h.repo.CreateIfAbsent(ctx, n.WithDedupeKey(key))
	if err != nil {
		return fmt.Errorf("store goal notification: %w", err)
	}
	if created {
		h.logger.Debug("Goal completion notified", zap.String("goal_id", goalID.String()))
	}
	return nil
}

var _ shared.EventHandler = (*GoalCompletedHandler)(nil)
