package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fintrack/backend/internal/domain/notification"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)

// FindByIDForOwner finds a notification by ID for one owner
func (r *GormNotificationRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
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

// FindAllForOwner lists notifications, newest first by default
func (r *GormNotificationRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter notification.NotificationFilter) ([]notification.Notification, error) {
	var rows []models.NotificationModel
	query := r.scoped(ctx, ownerID, filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, NotificationSortFields, "created_at"))
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForOwner counts notifications matching the filter
func (r *GormNotificationRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter notification.NotificationFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, ownerID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormNotificationRepository) scoped(ctx context.Context, ownerID uuid.UUID, filter notification.NotificationFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{}).Where("owner_id = ?", ownerID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	return query
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(models.NotificationModelFromDomain(n)).Error
}

// CreateIfAbsent inserts the notification unless its (owner, dedupe key) already exists
func (r *GormNotificationRepository) CreateIfAbsent(ctx context.Context, n *notification.Notification) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(models.NotificationModelFromDomain(n))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkAllRead marks every unread notification of the owner as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("owner_id = ? AND is_read = ?", ownerID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteForOwner deletes a notification
func (r *GormNotificationRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.NotificationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
