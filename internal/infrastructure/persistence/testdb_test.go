package persistence

import (
	"context"
	"testing"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a migrated in-memory sqlite database
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func seedAccount(t *testing.T, db *gorm.DB, ownerID uuid.UUID, currency valueobject.Currency, balance string) *account.Account {
	t.Helper()
	a, err := account.NewAccount(ownerID, "Account "+string(currency), account.AccountTypeChecking, currency, decimal.RequireFromString(balance))
	require.NoError(t, err)
	require.NoError(t, NewGormAccountRepository(db).Save(context.Background(), a))
	return a
}

func balanceOf(t *testing.T, db *gorm.DB, ownerID, id uuid.UUID) string {
	t.Helper()
	a, err := NewGormAccountRepository(db).FindByIDForOwner(context.Background(), ownerID, id)
	require.NoError(t, err)
	return a.Balance.StringFixed(2)
}
