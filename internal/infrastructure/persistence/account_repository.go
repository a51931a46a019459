package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

var _ account.AccountRepository = (*GormAccountRepository)(nil)

// FindByIDForOwner finds an account by ID for one owner
func (r *GormAccountRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error) {
	var model models.AccountModel
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

// FindAllForOwner lists an owner's accounts
func (r *GormAccountRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter account.AccountFilter) ([]account.Account, error) {
	var rows []models.AccountModel
	query := r.scoped(ctx, ownerID, filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, AccountSortFields, "created_at"))
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]account.Account, len(rows))
	for i := range rows {
		accounts[i] = *rows[i].ToDomain()
	}
	return accounts, nil
}

// CountForOwner counts an owner's accounts matching the filter
func (r *GormAccountRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter account.AccountFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, ownerID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAccountRepository) scoped(ctx context.Context, ownerID uuid.UUID, filter account.AccountFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).Where("owner_id = ?", ownerID)
	if !filter.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// Save inserts a new account or updates an existing one. The balance column is
// only written on insert; later changes go through ApplyDeltas.
func (r *GormAccountRepository) Save(ctx context.Context, a *account.Account) error {
	model := models.AccountModelFromDomain(a)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "type", "currency", "is_archived", "archived_at", "updated_at", "version",
		}),
	}).Create(model).Error
}

// DeleteForOwner deletes an account and every transaction touching it. Balance
// effects of those transactions on the owner's other accounts are reversed, and
// subscriptions charging the account stop auto-renewing.
func (r *GormAccountRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.TransactionModel
		if err := tx.Where("owner_id = ? AND (account_id = ? OR destination_account_id = ?)", ownerID, id, id).
			Find(&rows).Error; err != nil {
			return fmt.Errorf("load account transactions: %w", err)
		}

		var deltas []account.BalanceDelta
		for i := range rows {
			for _, d := range account.Reverse(rows[i].ToDomain().BalanceDeltas()) {
				if d.AccountID != id {
					deltas = append(deltas, d)
				}
			}
		}
		if err := applyBalanceDeltas(tx, ownerID, account.Merge(deltas)); err != nil {
			return err
		}

		if err := tx.Where("owner_id = ? AND (account_id = ? OR destination_account_id = ?)", ownerID, id, id).
			Delete(&models.TransactionModel{}).Error; err != nil {
			return fmt.Errorf("delete account transactions: %w", err)
		}
		if err := tx.Model(&models.SubscriptionModel{}).
			Where("owner_id = ? AND account_id = ?", ownerID, id).
			Updates(map[string]any{"account_id": nil, "auto_renew": false, "updated_at": time.Now()}).Error; err != nil {
			return fmt.Errorf("detach subscriptions: %w", err)
		}

		result := tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.AccountModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// IsReferenced reports whether a transaction or subscription uses the account
func (r *GormAccountRepository) IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.TransactionModel{}).
		Where("owner_id = ? AND (account_id = ? OR destination_account_id = ?)", ownerID, id, id).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("count account transactions: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	if err := db.Model(&models.SubscriptionModel{}).
		Where("owner_id = ? AND account_id = ?", ownerID, id).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("count account subscriptions: %w", err)
	}
	return n > 0, nil
}

// ApplyDeltas atomically adds each delta to its account balance
func (r *GormAccountRepository) ApplyDeltas(ctx context.Context, ownerID uuid.UUID, deltas []account.BalanceDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyBalanceDeltas(tx, ownerID, deltas)
	})
}

// applyBalanceDeltas updates balances relative to the stored value so
// concurrent writers never overwrite each other's changes
func applyBalanceDeltas(tx *gorm.DB, ownerID uuid.UUID, deltas []account.BalanceDelta) error {
	now := time.Now()
	for _, d := range deltas {
		if d.Amount.IsZero() {
			continue
		}
		result := tx.Model(&models.AccountModel{}).
			Where("owner_id = ? AND id = ?", ownerID, d.AccountID).
			Updates(map[string]any{
				"balance":    gorm.Expr("balance + ?", d.Amount),
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("apply balance delta to %s: %w", d.AccountID, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("account %s: %w", d.AccountID, shared.ErrNotFound)
		}
	}
	return nil
}
