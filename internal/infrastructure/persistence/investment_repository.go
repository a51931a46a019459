package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/investment"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvestmentRepository implements InvestmentRepository using GORM
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewGormInvestmentRepository creates a new GormInvestmentRepository
func NewGormInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

var _ investment.InvestmentRepository = (*GormInvestmentRepository)(nil)

// FindByIDForOwner finds an investment by ID for one owner
func (r *GormInvestmentRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*investment.Investment, error) {
	var model models.InvestmentModel
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

// FindAllForOwner lists investments
func (r *GormInvestmentRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter investment.InvestmentFilter) ([]investment.Investment, error) {
	var rows []models.InvestmentModel
	query := r.scoped(ctx, ownerID, filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, InvestmentSortFields, "created_at"))
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return investmentsToDomain(rows), nil
}

// CountForOwner counts investments matching the filter
func (r *GormInvestmentRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter investment.InvestmentFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, ownerID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvestmentRepository) scoped(ctx context.Context, ownerID uuid.UUID, filter investment.InvestmentFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.InvestmentModel{}).Where("owner_id = ?", ownerID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(symbol) LIKE ?)", p, p)
	}
	return query
}

// Save creates or updates an investment
func (r *GormInvestmentRepository) Save(ctx context.Context, inv *investment.Investment) error {
	return r.db.WithContext(ctx).Save(models.InvestmentModelFromDomain(inv)).Error
}

// DeleteForOwner deletes an investment with its snapshot history
func (r *GormInvestmentRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.InvestmentModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("investment_id = ?", id).Delete(&models.InvestmentSnapshotModel{}).Error; err != nil {
			return fmt.Errorf("delete snapshots: %w", err)
		}
		return nil
	})
}

// FindAllActive pages through investments of every owner by ascending id
func (r *GormInvestmentRepository) FindAllActive(ctx context.Context, afterID uuid.UUID, limit int) ([]investment.Investment, error) {
	var rows []models.InvestmentModel
	query := r.db.WithContext(ctx).Order("id ASC")
	if afterID != uuid.Nil {
		query = query.Where("id > ?", afterID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return investmentsToDomain(rows), nil
}

func investmentsToDomain(rows []models.InvestmentModel) []investment.Investment {
	out := make([]investment.Investment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormSnapshotRepository implements SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

var _ investment.SnapshotRepository = (*GormSnapshotRepository)(nil)

// Upsert writes the snapshot, replacing the valuation already taken that day
func (r *GormSnapshotRepository) Upsert(ctx context.Context, s *investment.Snapshot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "investment_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "quantity", "value"}),
		}).
		Create(models.SnapshotModelFromDomain(s)).Error
}

// FindForInvestment lists snapshots in [from, to], oldest first
func (r *GormSnapshotRepository) FindForInvestment(ctx context.Context, ownerID, investmentID uuid.UUID, from, to time.Time) ([]investment.Snapshot, error) {
	var rows []models.InvestmentSnapshotModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND investment_id = ? AND date >= ? AND date <= ?", ownerID, investmentID, from.UTC(), to.UTC()).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]investment.Snapshot, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
