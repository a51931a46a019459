package activity

import (
	"context"
	"fmt"

	"github.com/fintrack/backend/internal/domain/activity"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder persists one activity entry per domain event
type Recorder struct {
	repo   activity.ActivityRepository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo activity.ActivityRepository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// EventTypes returns nil so the recorder receives every event
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.OwnerID() == uuid.Nil {
		return nil
	}
	a, err := activity.FromEvent(event)
	if err != nil {
		return fmt.Errorf("build activity for %s: %w", event.EventType(), err)
	}
	if err := r.repo.Save(ctx, a); err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	r.logger.Debug("Activity recorded",
		zap.String("event_type", event.EventType()),
		zap.String("entity_id", a.EntityID.String()),
	)
	return nil
}

var _ shared.EventHandler = (*Recorder)(nil)
