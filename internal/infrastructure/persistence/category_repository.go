package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

var _ category.CategoryRepository = (*GormCategoryRepository)(nil)

// FindByIDForOwner finds a category by ID for one owner
func (r *GormCategoryRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*category.Category, error) {
	var model models.CategoryModel
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

// FindAllForOwner lists an owner's categories, alphabetically by default
func (r *GormCategoryRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter category.CategoryFilter) ([]category.Category, error) {
	var rows []models.CategoryModel
	order := "name ASC"
	if filter.OrderBy != "" {
		order = orderClause(filter.OrderBy, filter.OrderDir, CategorySortFields, "name")
	}
	query := r.scoped(ctx, ownerID, filter).Order(order)
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]category.Category, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForOwner counts an owner's categories
func (r *GormCategoryRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter category.CategoryFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, ownerID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCategoryRepository) scoped(ctx context.Context, ownerID uuid.UUID, filter category.CategoryFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{}).Where("owner_id = ?", ownerID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// ExistsByName checks for a same-named category of the same type, case-insensitively
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, categoryType category.CategoryType, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("owner_id = ? AND type = ? AND LOWER(name) = ?", ownerID, categoryType, strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, c *category.Category) error {
	return r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(c)).Error
}

// SaveAll inserts categories in one batch
func (r *GormCategoryRepository) SaveAll(ctx context.Context, categories []*category.Category) error {
	if len(categories) == 0 {
		return nil
	}
	rows := make([]*models.CategoryModel, len(categories))
	for i, c := range categories {
		rows[i] = models.CategoryModelFromDomain(c)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

// DeleteForOwner deletes a category and uncategorizes what referenced it
func (r *GormCategoryRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.TransactionModel{}).
			Where("owner_id = ? AND category_id = ?", ownerID, id).
			Updates(map[string]any{"category_id": nil, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("clear transaction categories: %w", err)
		}
		if err := tx.Model(&models.SubscriptionModel{}).
			Where("owner_id = ? AND category_id = ?", ownerID, id).
			Updates(map[string]any{"category_id": nil, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("clear subscription categories: %w", err)
		}
		result := tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.CategoryModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
