package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/subscription"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAccountRepository_Save(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormAccountRepository(db)
	ownerID := uuid.New()

	acc := seedAccount(t, db, ownerID, valueobject.USD, "250.00")

	t.Run("update keeps the stored balance", func(t *testing.T) {
		require.NoError(t, repo.ApplyDeltas(ctx, ownerID, []account.BalanceDelta{{AccountID: acc.ID, Amount: decimal.RequireFromString("50")}}))

		require.NoError(t, acc.Update("Main checking", account.AccountTypeChecking, valueobject.USD))
		require.NoError(t, repo.Save(ctx, acc))

		stored, err := repo.FindByIDForOwner(ctx, ownerID, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Main checking", stored.Name)
		assert.Equal(t, "300.00", stored.Balance.StringFixed(2))
	})

	t.Run("other owner sees not found", func(t *testing.T) {
		_, err := repo.FindByIDForOwner(ctx, uuid.New(), acc.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("archived accounts are hidden unless requested", func(t *testing.T) {
		archived := seedAccount(t, db, ownerID, valueobject.EUR, "0")
		require.NoError(t, archived.Archive())
		require.NoError(t, repo.Save(ctx, archived))

		active, err := repo.FindAllForOwner(ctx, ownerID, account.AccountFilter{})
		require.NoError(t, err)
		assert.Len(t, active, 1)

		all, err := repo.CountForOwner(ctx, ownerID, account.AccountFilter{IncludeArchived: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), all)
	})

	t.Run("apply deltas to unknown account fails", func(t *testing.T) {
		err := repo.ApplyDeltas(ctx, ownerID, []account.BalanceDelta{{AccountID: uuid.New(), Amount: decimal.NewFromInt(1)}})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormAccountRepository_DeleteForOwner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormAccountRepository(db)
	txRepo := NewGormTransactionRepository(db)
	subRepo := NewGormSubscriptionRepository(db)
	ownerID := uuid.New()

	doomed := seedAccount(t, db, ownerID, valueobject.USD, "100.00")
	kept := seedAccount(t, db, ownerID, valueobject.USD, "100.00")

	amount := decimal.RequireFromString("40")
	transfer, err := transaction.NewTransaction(ownerID, transaction.Params{
		AccountID: kept.ID, Type: transaction.TransactionTypeTransfer, Amount: amount, Currency: valueobject.USD,
		ConvertedAmount: amount, DestinationAccountID: &doomed.ID, DestinationAmount: amount, Date: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, txRepo.Create(ctx, transfer, transfer.BalanceDeltas()))
	assert.Equal(t, "60.00", balanceOf(t, db, ownerID, kept.ID))

	sub, err := subscription.NewSubscription(ownerID, subscription.Params{
		Name: "Streaming", AccountID: &doomed.ID, Amount: decimal.RequireFromString("9.99"), Currency: valueobject.USD,
		Frequency: subscription.FrequencyMonthly, StartDate: time.Now(), AutoRenew: true,
	})
	require.NoError(t, err)
	require.NoError(t, subRepo.Save(ctx, sub))

	require.NoError(t, repo.DeleteForOwner(ctx, ownerID, doomed.ID))

	_, err = repo.FindByIDForOwner(ctx, ownerID, doomed.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "100.00", balanceOf(t, db, ownerID, kept.ID))

	count, err := txRepo.CountForOwner(ctx, ownerID, transaction.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)

	detached, err := subRepo.FindByIDForOwner(ctx, ownerID, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.AccountID)
	assert.False(t, detached.AutoRenew)

	t.Run("deleting twice is not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteForOwner(ctx, ownerID, doomed.ID), shared.ErrNotFound)
	})
}

func TestGormAccountRepository_IsReferenced(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormAccountRepository(db)
	ownerID := uuid.New()

	source := seedAccount(t, db, ownerID, valueobject.USD, "100.00")
	target := seedAccount(t, db, ownerID, valueobject.USD, "0")
	charged := seedAccount(t, db, ownerID, valueobject.USD, "0")
	idle := seedAccount(t, db, ownerID, valueobject.USD, "0")

	amount := decimal.RequireFromString("25")
	transfer, err := transaction.NewTransaction(ownerID, transaction.Params{
		AccountID: source.ID, Type: transaction.TransactionTypeTransfer, Amount: amount, Currency: valueobject.USD,
		ConvertedAmount: amount, DestinationAccountID: &target.ID, DestinationAmount: amount, Date: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormTransactionRepository(db).Create(ctx, transfer, transfer.BalanceDeltas()))

	sub, err := subscription.NewSubscription(ownerID, subscription.Params{
		Name: "Gym", AccountID: &charged.ID, Amount: decimal.RequireFromString("30"), Currency: valueobject.USD,
		Frequency: subscription.FrequencyMonthly, StartDate: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormSubscriptionRepository(db).Save(ctx, sub))

	for name, tc := range map[string]struct {
		id   uuid.UUID
		want bool
	}{
		"transfer source":      {source.ID, true},
		"transfer destination": {target.ID, true},
		"subscription account": {charged.ID, true},
		"unused account":       {idle.ID, false},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := repo.IsReferenced(ctx, ownerID, tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("other owners' rows do not count", func(t *testing.T) {
		got, err := repo.IsReferenced(ctx, uuid.New(), source.ID)
		require.NoError(t, err)
		assert.False(t, got)
	})
}
