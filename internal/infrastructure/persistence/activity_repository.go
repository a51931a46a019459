package persistence

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/activity"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityRepository implements ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

var _ activity.ActivityRepository = (*GormActivityRepository)(nil)

// Save appends an activity entry
func (r *GormActivityRepository) Save(ctx context.Context, a *activity.Activity) error {
	return r.db.WithContext(ctx).Create(models.ActivityModelFromDomain(a)).Error
}

// FindAllForOwner lists the owner's activity, newest first by default
func (r *GormActivityRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter activity.ActivityFilter) ([]activity.Activity, error) {
	var rows []models.ActivityModel
	query := r.scoped(ctx, ownerID, filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, ActivitySortFields, "created_at"))
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]activity.Activity, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// CountForOwner counts activity entries matching the filter
func (r *GormActivityRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter activity.ActivityFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, ownerID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormActivityRepository) scoped(ctx context.Context, ownerID uuid.UUID, filter activity.ActivityFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ActivityModel{}).Where("owner_id = ?", ownerID)
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", filter.Since.UTC())
	}
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// DeleteOlderThan prunes entries created before cutoff
func (r *GormActivityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&models.ActivityModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
