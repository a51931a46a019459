package activity

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityFilter narrows an activity listing
type ActivityFilter struct {
	shared.Filter
	EntityType string
	EntityID   *uuid.UUID
	Since      *time.Time
}

// ActivityRepository stores the audit trail
type ActivityRepository interface {
	Save(ctx context.Context, a *Activity) error
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter ActivityFilter) ([]Activity, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter ActivityFilter) (int64, error)
	// DeleteOlderThan prunes entries created before cutoff and returns the number removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
