package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

var _ transaction.TransactionRepository = (*GormTransactionRepository)(nil)

// FindByIDForOwner finds a transaction by ID for one owner
func (r *GormTransactionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*transaction.Transaction, error) {
	var model models.TransactionModel
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

// FindAllForOwner lists transactions, newest first by default
func (r *GormTransactionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter transaction.TransactionFilter) ([]transaction.Transaction, error) {
	var rows []models.TransactionModel
	query := r.scoped(ctx, ownerID, filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, TransactionSortFields, "date")).
		Order("created_at DESC")
	if err := paginate(query, filter.Filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]transaction.Transaction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForOwner counts transactions matching the filter
func (r *GormTransactionRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter transaction.TransactionFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, ownerID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTransactionRepository) scoped(ctx context.Context, ownerID uuid.UUID, filter transaction.TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("owner_id = ?", ownerID)
	if filter.AccountID != nil {
		query = query.Where("(account_id = ? OR destination_account_id = ?)", *filter.AccountID, *filter.AccountID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SubscriptionID != nil {
		query = query.Where("subscription_id = ?", *filter.SubscriptionID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", filter.FromDate.UTC())
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", filter.ToDate.UTC())
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(description) LIKE ? OR LOWER(notes) LIKE ?)", p, p)
	}
	return query
}

// Create inserts the entry and applies its balance deltas in one database transaction
func (r *GormTransactionRepository) Create(ctx context.Context, txn *transaction.Transaction, deltas []account.BalanceDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.TransactionModelFromDomain(txn)).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return applyBalanceDeltas(tx, txn.OwnerID, deltas)
	})
}

// Update saves the entry and applies the net balance deltas in one database transaction
func (r *GormTransactionRepository) Update(ctx context.Context, txn *transaction.Transaction, deltas []account.BalanceDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TransactionModel{}).
			Where("owner_id = ? AND id = ?", txn.OwnerID, txn.ID).
			Select("*").Omit("id", "owner_id", "created_at").
			Updates(models.TransactionModelFromDomain(txn))
		if result.Error != nil {
			return fmt.Errorf("update transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return applyBalanceDeltas(tx, txn.OwnerID, deltas)
	})
}

// Delete removes the entry and applies the reversing deltas in one database transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, txn *transaction.Transaction, deltas []account.BalanceDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("owner_id = ? AND id = ?", txn.OwnerID, txn.ID).Delete(&models.TransactionModel{})
		if result.Error != nil {
			return fmt.Errorf("delete transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return applyBalanceDeltas(tx, txn.OwnerID, deltas)
	})
}

type categoryTotalRow struct {
	CategoryID *uuid.UUID
	Currency   string
	Total      decimal.Decimal
}

// SumByCategory totals converted amounts of one type per category in [from, to),
// grouped by the currency of the booking account
func (r *GormTransactionRepository) SumByCategory(ctx context.Context, ownerID uuid.UUID, txType transaction.TransactionType, from, to time.Time) ([]transaction.CategoryTotal, error) {
	var rows []categoryTotalRow
	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select("t.category_id AS category_id, a.currency AS currency, SUM(t.converted_amount) AS total").
		Joins("JOIN accounts AS a ON a.id = t.account_id").
		Where("t.owner_id = ? AND t.type = ? AND t.date >= ? AND t.date < ?", ownerID, txType, from.UTC(), to.UTC()).
		Group("t.category_id, a.currency").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	out := make([]transaction.CategoryTotal, len(rows))
	for i, row := range rows {
		out[i] = transaction.CategoryTotal{CategoryID: row.CategoryID, Currency: row.Currency, Total: row.Total}
	}
	return out, nil
}

type monthlyRow struct {
	Date            time.Time
	Type            transaction.TransactionType
	Currency        string
	ConvertedAmount decimal.Decimal
}

// SumByMonth totals converted income and expense per calendar month (UTC) in
// [from, to). Bucketing happens here so the query stays portable across
// postgres and sqlite.
func (r *GormTransactionRepository) SumByMonth(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]transaction.MonthlyTotal, error) {
	var rows []monthlyRow
	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select("t.date AS date, t.type AS type, a.currency AS currency, t.converted_amount AS converted_amount").
		Joins("JOIN accounts AS a ON a.id = t.account_id").
		Where("t.owner_id = ? AND t.type IN ? AND t.date >= ? AND t.date < ?", ownerID,
			[]transaction.TransactionType{transaction.TransactionTypeIncome, transaction.TransactionTypeExpense},
			from.UTC(), to.UTC()).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum by month: %w", err)
	}

	type key struct {
		month    string
		txType   transaction.TransactionType
		currency string
	}
	sums := make(map[key]decimal.Decimal)
	for _, row := range rows {
		k := key{row.Date.UTC().Format("2006-01"), row.Type, row.Currency}
		sums[k] = sums[k].Add(row.ConvertedAmount)
	}

	out := make([]transaction.MonthlyTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, transaction.MonthlyTotal{Month: k.month, Type: k.txType, Currency: k.currency, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Currency < out[j].Currency
	})
	return out, nil
}
