package account

import (
	"context"
	"errors"
	"testing"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter account.AccountFilter) ([]account.Account, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]account.Account), args.Error(1)
}

func (m *MockAccountRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter account.AccountFilter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, a *account.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockAccountRepository) IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ApplyDeltas(ctx context.Context, ownerID uuid.UUID, deltas []account.BalanceDelta) error {
	return m.Called(ctx, ownerID, deltas).Error(0)
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}

func newService() (*AccountService, *MockAccountRepository, *recordingPublisher) {
	repo := new(MockAccountRepository)
	pub := &recordingPublisher{}
	svc := NewAccountService(repo)
	svc.SetEventPublisher(pub)
	return svc, repo, pub
}

func existingAccount(t *testing.T, ownerID uuid.UUID, balance string) *account.Account {
	t.Helper()
	a, err := account.NewAccount(ownerID, "Checking", account.AccountTypeChecking, valueobject.USD, decimal.RequireFromString(balance))
	require.NoError(t, err)
	a.ClearDomainEvents()
	return a
}

func TestAccountService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("saves and publishes", func(t *testing.T) {
		svc, repo, pub := newService()
		repo.On("Save", ctx, mock.AnythingOfType("*account.Account")).Return(nil)

		resp, err := svc.Create(ctx, ownerID, CreateAccountRequest{
			Name: "Wallet", Type: "cash", Currency: "eur", OpeningBalance: decimal.NewFromInt(40),
		})
		require.NoError(t, err)
		assert.Equal(t, "EUR", resp.Currency)
		assert.Equal(t, "40", resp.Balance.String())
		assert.Equal(t, []string{account.EventTypeAccountCreated}, pub.types)
	})

	t.Run("anonymous caller is forbidden", func(t *testing.T) {
		svc, repo, _ := newService()
		_, err := svc.Create(ctx, uuid.Nil, CreateAccountRequest{Name: "x", Type: "cash", Currency: "USD"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.Create(ctx, ownerID, CreateAccountRequest{Name: "x", Type: "cash", Currency: "ZZZ"})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_CURRENCY", de.Code)
	})
}

func TestAccountService_GetByID(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	svc, repo, _ := newService()
	id := uuid.New()
	repo.On("FindByIDForOwner", ctx, ownerID, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, ownerID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.GetByID(ctx, uuid.Nil, id)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestAccountService_List(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	svc, repo, _ := newService()
	a := existingAccount(t, ownerID, "10")

	repo.On("FindAllForOwner", ctx, ownerID, mock.MatchedBy(func(f account.AccountFilter) bool {
		return f.OrderBy == "name" && f.Page == 1 && f.PageSize == 20 && f.Type != nil && *f.Type == account.AccountTypeSavings
	})).Return([]account.Account{*a}, nil)
	repo.On("CountForOwner", ctx, ownerID, mock.Anything).Return(int64(1), nil)

	items, total, err := svc.List(ctx, ownerID, AccountListFilter{Type: "savings"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
}

func TestAccountService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	toJPY := UpdateAccountRequest{Name: "Checking", Type: "checking", Currency: "JPY"}

	t.Run("currency is locked while entries reference the account", func(t *testing.T) {
		svc, repo, pub := newService()
		a := existingAccount(t, ownerID, "0")
		repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)
		repo.On("IsReferenced", ctx, ownerID, a.ID).Return(true, nil)

		_, err := svc.Update(ctx, ownerID, a.ID, toJPY)
		assert.ErrorIs(t, err, account.ErrCurrencyLocked)
		assert.Equal(t, valueobject.USD, a.Currency)
		assert.Empty(t, pub.types)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unused empty account can change currency", func(t *testing.T) {
		svc, repo, pub := newService()
		a := existingAccount(t, ownerID, "0")
		repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)
		repo.On("IsReferenced", ctx, ownerID, a.ID).Return(false, nil)
		repo.On("Save", ctx, a).Return(nil)

		resp, err := svc.Update(ctx, ownerID, a.ID, toJPY)
		require.NoError(t, err)
		assert.Equal(t, "JPY", resp.Currency)
		assert.Equal(t, []string{account.EventTypeAccountUpdated}, pub.types)
	})

	t.Run("renaming skips the reference check", func(t *testing.T) {
		svc, repo, _ := newService()
		a := existingAccount(t, ownerID, "50")
		repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)
		repo.On("Save", ctx, a).Return(nil)

		resp, err := svc.Update(ctx, ownerID, a.ID, UpdateAccountRequest{Name: "Daily", Type: "checking", Currency: "USD"})
		require.NoError(t, err)
		assert.Equal(t, "Daily", resp.Name)
		repo.AssertNotCalled(t, "IsReferenced", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reference check failure is returned", func(t *testing.T) {
		svc, repo, _ := newService()
		a := existingAccount(t, ownerID, "0")
		repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)
		repo.On("IsReferenced", ctx, ownerID, a.ID).Return(false, errors.New("db down"))

		_, err := svc.Update(ctx, ownerID, a.ID, toJPY)
		assert.EqualError(t, err, "db down")
	})
}

func TestAccountService_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("applies the difference as a delta", func(t *testing.T) {
		svc, repo, pub := newService()
		a := existingAccount(t, ownerID, "100")
		repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)
		repo.On("ApplyDeltas", ctx, ownerID, mock.MatchedBy(func(ds []account.BalanceDelta) bool {
			return len(ds) == 1 && ds[0].AccountID == a.ID && ds[0].Amount.Equal(decimal.NewFromInt(-25))
		})).Return(nil)

		resp, err := svc.AdjustBalance(ctx, ownerID, a.ID, AdjustBalanceRequest{Balance: decimal.NewFromInt(75), Reason: "bank statement"})
		require.NoError(t, err)
		assert.Equal(t, "75", resp.Balance.String())
		assert.Equal(t, []string{account.EventTypeAccountBalanceAdjusted}, pub.types)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("archived accounts cannot be adjusted", func(t *testing.T) {
		svc, repo, _ := newService()
		a := existingAccount(t, ownerID, "100")
		require.NoError(t, a.Archive())
		repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)

		_, err := svc.AdjustBalance(ctx, ownerID, a.ID, AdjustBalanceRequest{Balance: decimal.Zero})
		assert.ErrorIs(t, err, account.ErrAccountArchived)
	})
}

func TestAccountService_ArchiveAndDelete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("archive saves and publishes", func(t *testing.T) {
		svc, repo, pub := newService()
		a := existingAccount(t, ownerID, "0")
		repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)
		repo.On("Save", ctx, a).Return(nil)

		resp, err := svc.Archive(ctx, ownerID, a.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsArchived)
		assert.Equal(t, []string{account.EventTypeAccountArchived}, pub.types)
	})

	t.Run("delete publishes only after the repository succeeds", func(t *testing.T) {
		svc, repo, pub := newService()
		a := existingAccount(t, ownerID, "0")
		repo.On("FindByIDForOwner", ctx, ownerID, a.ID).Return(a, nil)
		repo.On("DeleteForOwner", ctx, ownerID, a.ID).Return(errors.New("db down")).Once()

		require.Error(t, svc.Delete(ctx, ownerID, a.ID))
		assert.Empty(t, pub.types)

		repo.On("DeleteForOwner", ctx, ownerID, a.ID).Return(nil).Once()
		require.NoError(t, svc.Delete(ctx, ownerID, a.ID))
		assert.Equal(t, []string{account.EventTypeAccountDeleted}, pub.types)
	})
}
