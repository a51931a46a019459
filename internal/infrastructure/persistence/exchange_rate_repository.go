package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExchangeRateRepository implements ExchangeRateRepository using GORM
type GormExchangeRateRepository struct {
	db *gorm.DB
}

// NewGormExchangeRateRepository creates a new GormExchangeRateRepository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

var _ exchangerate.ExchangeRateRepository = (*GormExchangeRateRepository)(nil)

// FindRate returns the stored rate of the directed pair
func (r *GormExchangeRateRepository) FindRate(ctx context.Context, from, to valueobject.Currency) (decimal.Decimal, bool, error) {
	rate, err := r.FindByPair(ctx, from, to)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return rate.Rate, true, nil
}

// FindAll lists every stored rate ordered by pair
func (r *GormExchangeRateRepository) FindAll(ctx context.Context) ([]exchangerate.ExchangeRate, error) {
	var rows []models.ExchangeRateModel
	if err := r.db.WithContext(ctx).Order("from_currency ASC, to_currency ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]exchangerate.ExchangeRate, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindByPair finds the rate of one directed pair
func (r *GormExchangeRateRepository) FindByPair(ctx context.Context, from, to valueobject.Currency) (*exchangerate.ExchangeRate, error) {
	var model models.ExchangeRateModel
	if err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", from, to).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	rate := model.ToDomain()
	return &rate, nil
}

// Upsert inserts the pair or overwrites its rate
func (r *GormExchangeRateRepository) Upsert(ctx context.Context, rate *exchangerate.ExchangeRate) error {
	rate.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_currency"}, {Name: "to_currency"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "source", "fetched_at", "updated_at"}),
		}).
		Create(models.ExchangeRateModelFromDomain(rate)).Error
}

// DeleteByPair removes the rate of one directed pair
func (r *GormExchangeRateRepository) DeleteByPair(ctx context.Context, from, to valueobject.Currency) error {
	result := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", from, to).
		Delete(&models.ExchangeRateModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
