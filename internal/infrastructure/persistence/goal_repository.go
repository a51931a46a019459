package persistence

import (
	"context"
	"errors"

	"github.com/fintrack/backend/internal/domain/goal"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGoalRepository implements GoalRepository using GORM
type GormGoalRepository struct {
	db *gorm.DB
}

// NewGormGoalRepository creates a new GormGoalRepository
func NewGormGoalRepository(db *gorm.DB) *GormGoalRepository {
	return &GormGoalRepository{db: db}
}

var _ goal.GoalRepository = (*GormGoalRepository)(nil)

// FindByIDForOwner finds a goal by ID for one owner
func (r *GormGoalRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*goal.Goal, error) {
	var model models.GoalModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner lists goals
func (r *GormGoalRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter goal.GoalFilter) ([]goal.Goal, error) {
	var rows []models.GoalModel
	query := r.scoped(ctx, ownerID, filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, GoalSortFields, "created_at"))
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	goals := make([]goal.Goal, len(rows))
	for i := range rows {
		goals[i] = *rows[i].ToDomain()
	}
	return goals, nil
}

// CountForOwner counts goals matching the filter
func (r *GormGoalRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter goal.GoalFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, ownerID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormGoalRepository) scoped(ctx context.Context, ownerID uuid.UUID, filter goal.GoalFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.GoalModel{}).Where("owner_id = ?", ownerID)
	if filter.Completed != nil {
		query = query.Where("is_completed = ?", *filter.Completed)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// Save creates or updates a goal
func (r *GormGoalRepository) Save(ctx context.Context, g *goal.Goal) error {
	return r.db.WithContext(ctx).Save(models.GoalModelFromDomain(g)).Error
}

// DeleteForOwner deletes a goal
func (r *GormGoalRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.GoalModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
