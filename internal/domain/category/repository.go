package category

import (
	"context"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryFilter defines filtering options for category queries
type CategoryFilter struct {
	shared.Filter
	Type *CategoryType
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Category, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter CategoryFilter) ([]Category, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter CategoryFilter) (int64, error)
	ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, categoryType CategoryType, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	SaveAll(ctx context.Context, categories []*Category) error
	// DeleteForOwner removes the category and clears references from transactions and subscriptions
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
