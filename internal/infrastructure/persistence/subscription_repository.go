package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/subscription"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

var _ subscription.SubscriptionRepository = (*GormSubscriptionRepository)(nil)

// FindByIDForOwner finds a subscription by ID for one owner
func (r *GormSubscriptionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
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

// FindAllForOwner lists subscriptions, soonest renewal first by default
func (r *GormSubscriptionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter subscription.SubscriptionFilter) ([]subscription.Subscription, error) {
	var rows []models.SubscriptionModel
	orderDir := filter.OrderDir
	if filter.OrderBy == "" && orderDir == "" {
		orderDir = "asc"
	}
	query := r.scoped(ctx, ownerID, filter).
		Order(orderClause(filter.OrderBy, orderDir, SubscriptionSortFields, "next_renewal_date"))
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return subscriptionsToDomain(rows), nil
}

// CountForOwner counts subscriptions matching the filter
func (r *GormSubscriptionRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter subscription.SubscriptionFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, ownerID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSubscriptionRepository) scoped(ctx context.Context, ownerID uuid.UUID, filter subscription.SubscriptionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).Where("owner_id = ?", ownerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Frequency != nil {
		query = query.Where("frequency = ?", *filter.Frequency)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, s *subscription.Subscription) error {
	return r.db.WithContext(ctx).Save(models.SubscriptionModelFromDomain(s)).Error
}

// DeleteForOwner deletes a subscription. Booked renewal entries stay in the
// ledger with their subscription reference cleared.
func (r *GormSubscriptionRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TransactionModel{}).
			Where("owner_id = ? AND subscription_id = ?", ownerID, id).
			Updates(map[string]any{"subscription_id": nil, "updated_at": time.Now()}).Error; err != nil {
			return fmt.Errorf("detach renewal entries: %w", err)
		}
		result := tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.SubscriptionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindDue returns active subscriptions of every owner due at or before now, oldest first
func (r *GormSubscriptionRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]subscription.Subscription, error) {
	var rows []models.SubscriptionModel
	query := r.db.WithContext(ctx).
		Where("status = ? AND next_renewal_date <= ?", subscription.StatusActive, now.UTC()).
		Order("next_renewal_date ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return subscriptionsToDomain(rows), nil
}

// FindRenewingBetween returns active subscriptions renewing in (from, to]
func (r *GormSubscriptionRepository) FindRenewingBetween(ctx context.Context, from, to time.Time) ([]subscription.Subscription, error) {
	var rows []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_renewal_date > ? AND next_renewal_date <= ?", subscription.StatusActive, from.UTC(), to.UTC()).
		Order("next_renewal_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return subscriptionsToDomain(rows), nil
}

// FindActiveForOwner returns all active subscriptions of one owner
func (r *GormSubscriptionRepository) FindActiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]subscription.Subscription, error) {
	var rows []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, subscription.StatusActive).
		Order("next_renewal_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return subscriptionsToDomain(rows), nil
}

// SaveRenewal persists the advanced subscription together with its booked entries and balance changes
func (r *GormSubscriptionRepository) SaveRenewal(ctx context.Context, s *subscription.Subscription, entries []*transaction.Transaction, deltas []account.BalanceDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.SubscriptionModelFromDomain(s)).Error; err != nil {
			return fmt.Errorf("save subscription: %w", err)
		}
		for _, entry := range entries {
			if err := tx.Create(models.TransactionModelFromDomain(entry)).Error; err != nil {
				return fmt.Errorf("insert renewal entry: %w", err)
			}
		}
		return applyBalanceDeltas(tx, s.OwnerID, deltas)
	})
}

func subscriptionsToDomain(rows []models.SubscriptionModel) []subscription.Subscription {
	out := make([]subscription.Subscription, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
