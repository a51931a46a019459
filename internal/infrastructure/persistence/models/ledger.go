package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account aggregate
type AccountModel struct {
	OwnedAggregateModel
	Name       string               `gorm:"type:varchar(100);not null"`
	Type       account.AccountType  `gorm:"type:varchar(20);not null"`
	Currency   valueobject.Currency `gorm:"type:varchar(3);not null"`
	Balance    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	IsArchived bool                 `gorm:"not null;default:false"`
	ArchivedAt *time.Time
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the model to a domain Account
func (m *AccountModel) ToDomain() *account.Account {
	return &account.Account{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Name:               m.Name,
		Type:               m.Type,
		Currency:           m.Currency,
		Balance:            m.Balance,
		IsArchived:         m.IsArchived,
		ArchivedAt:         m.ArchivedAt,
	}
}

// AccountModelFromDomain creates a model from a domain Account
func AccountModelFromDomain(a *account.Account) *AccountModel {
	m := &AccountModel{
		Name:       a.Name,
		Type:       a.Type,
		Currency:   a.Currency,
		Balance:    a.Balance,
		IsArchived: a.IsArchived,
		ArchivedAt: a.ArchivedAt,
	}
	m.FromDomainOwned(a.OwnedAggregateRoot)
	return m
}

// CategoryModel is the persistence model for the Category aggregate
type CategoryModel struct {
	OwnedAggregateModel
	Name      string                `gorm:"type:varchar(50);not null"`
	Type      category.CategoryType `gorm:"type:varchar(20);not null"`
	Icon      string                `gorm:"type:varchar(50)"`
	Color     string                `gorm:"type:varchar(7)"`
	IsDefault bool                  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *category.Category {
	return &category.Category{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Name:               m.Name,
		Type:               m.Type,
		Icon:               m.Icon,
		Color:              m.Color,
		IsDefault:          m.IsDefault,
	}
}

// CategoryModelFromDomain creates a model from a domain Category
func CategoryModelFromDomain(c *category.Category) *CategoryModel {
	m := &CategoryModel{
		Name:      c.Name,
		Type:      c.Type,
		Icon:      c.Icon,
		Color:     c.Color,
		IsDefault: c.IsDefault,
	}
	m.FromDomainOwned(c.OwnedAggregateRoot)
	return m
}

// TransactionModel is the persistence model for the Transaction aggregate
type TransactionModel struct {
	OwnedAggregateModel
	AccountID            uuid.UUID                   `gorm:"type:uuid;not null;index"`
	CategoryID           *uuid.UUID                  `gorm:"type:uuid;index"`
	Type                 transaction.TransactionType `gorm:"type:varchar(20);not null"`
	Amount               decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	Currency             valueobject.Currency        `gorm:"type:varchar(3);not null"`
	ConvertedAmount      decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	DestinationAccountID *uuid.UUID                  `gorm:"type:uuid;index"`
	DestinationAmount    decimal.Decimal             `gorm:"type:decimal(18,4);not null;default:0"`
	Description          string                      `gorm:"type:varchar(255)"`
	Notes                string                      `gorm:"type:text"`
	Date                 time.Time                   `gorm:"not null;index"`
	SubscriptionID       *uuid.UUID                  `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the model to a domain Transaction
func (m *TransactionModel) ToDomain() *transaction.Transaction {
	return &transaction.Transaction{
		OwnedAggregateRoot:   m.ToDomainOwned(),
		AccountID:            m.AccountID,
		CategoryID:           m.CategoryID,
		Type:                 m.Type,
		Amount:               m.Amount,
		Currency:             m.Currency,
		ConvertedAmount:      m.ConvertedAmount,
		DestinationAccountID: m.DestinationAccountID,
		DestinationAmount:    m.DestinationAmount,
		Description:          m.Description,
		Notes:                m.Notes,
		Date:                 m.Date,
		SubscriptionID:       m.SubscriptionID,
	}
}

// TransactionModelFromDomain creates a model from a domain Transaction
func TransactionModelFromDomain(t *transaction.Transaction) *TransactionModel {
	m := &TransactionModel{
		AccountID:            t.AccountID,
		CategoryID:           t.CategoryID,
		Type:                 t.Type,
		Amount:               t.Amount,
		Currency:             t.Currency,
		ConvertedAmount:      t.ConvertedAmount,
		DestinationAccountID: t.DestinationAccountID,
		DestinationAmount:    t.DestinationAmount,
		Description:          t.Description,
		Notes:                t.Notes,
		Date:                 utc(t.Date),
		SubscriptionID:       t.SubscriptionID,
	}
	m.FromDomainOwned(t.OwnedAggregateRoot)
	return m
}
