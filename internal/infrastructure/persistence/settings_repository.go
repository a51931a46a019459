package persistence

import (
	"context"
	"errors"

	"github.com/fintrack/backend/internal/domain/settings"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

var _ settings.SettingsRepository = (*GormSettingsRepository)(nil)

// FindByOwner loads one user's settings
func (r *GormSettingsRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*settings.UserSettings, error) {
	var model models.UserSettingsModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the settings row of the owner
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.UserSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"base_currency", "locale", "timezone", "notifications_enabled", "reminder_days", "updated_at",
			}),
		}).
		Create(models.UserSettingsModelFromDomain(s)).Error
}

// FindMany loads the settings of several users; users without a row are absent from the map
func (r *GormSettingsRepository) FindMany(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]*settings.UserSettings, error) {
	out := make(map[uuid.UUID]*settings.UserSettings, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	var rows []models.UserSettingsModel
	if err := r.db.WithContext(ctx).Where("owner_id IN ?", ownerIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].OwnerID] = rows[i].ToDomain()
	}
	return out, nil
}
