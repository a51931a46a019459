package goal

import (
	"context"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GoalFilter defines filtering options for goal queries
type GoalFilter struct {
	shared.Filter
	Completed *bool
}

// GoalRepository defines the interface for goal persistence
type GoalRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Goal, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter GoalFilter) ([]Goal, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter GoalFilter) (int64, error)
	Save(ctx context.Context, goal *Goal) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
