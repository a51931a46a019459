package account

import (
	"context"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AccountService handles account operations for the signed-in user
type AccountService struct {
	accountRepo    account.AccountRepository
	eventPublisher shared.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo account.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// SetEventPublisher sets the publisher for account events
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new account
func (s *AccountService) Create(ctx context.Context, ownerID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	a, err := account.NewAccount(ownerID, req.Name, account.AccountType(req.Type), currency, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, a)

	resp := ToAccountResponse(a)
	return &resp, nil
}

// GetByID returns one account
func (s *AccountService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*AccountResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	a, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(a)
	return &resp, nil
}

// List returns a page of accounts and the total count
func (s *AccountService) List(ctx context.Context, ownerID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	domainFilter := account.AccountFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.Normalize(),
		IncludeArchived: filter.IncludeArchived,
	}
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "name"
		domainFilter.OrderDir = "asc"
	}
	if filter.Type != "" {
		t := account.AccountType(filter.Type)
		domainFilter.Type = &t
	}

	accounts, err := s.accountRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToAccountResponses(accounts), total, nil
}

// Update edits name, type and currency. The currency stays fixed once any
// transaction or subscription references the account, since their recorded
// amounts are in the old currency.
func (s *AccountService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	return s.mutate(ctx, ownerID, id, func(a *account.Account) error {
		if currency != a.Currency {
			inUse, err := s.accountRepo.IsReferenced(ctx, ownerID, a.ID)
			if err != nil {
				return err
			}
			if inUse {
				return account.ErrCurrencyLocked
			}
		}
		return a.Update(req.Name, account.AccountType(req.Type), currency)
	})
}

// Archive hides the account from totals
func (s *AccountService) Archive(ctx context.Context, ownerID, id uuid.UUID) (*AccountResponse, error) {
	return s.mutate(ctx, ownerID, id, func(a *account.Account) error { return a.Archive() })
}

// Unarchive restores an archived account
func (s *AccountService) Unarchive(ctx context.Context, ownerID, id uuid.UUID) (*AccountResponse, error) {
	return s.mutate(ctx, ownerID, id, func(a *account.Account) error { return a.Unarchive() })
}

// AdjustBalance corrects the balance to an absolute value. The difference is
// applied as a relative update so concurrent postings are not lost. It books
// no ledger entry, so statements of earlier months shift by the difference.
func (s *AccountService) AdjustBalance(ctx context.Context, ownerID, id uuid.UUID, req AdjustBalanceRequest) (*AccountResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	a, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	delta, err := a.AdjustBalance(req.Balance, req.Reason)
	if err != nil {
		return nil, err
	}
	if !delta.IsZero() {
		if err := s.accountRepo.ApplyDeltas(ctx, ownerID, []account.BalanceDelta{{AccountID: a.ID, Amount: delta}}); err != nil {
			return nil, err
		}
	}
	shared.PublishEvents(ctx, s.eventPublisher, a)

	resp := ToAccountResponse(a)
	return &resp, nil
}

// Delete removes the account with its transactions
func (s *AccountService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := shared.RequireOwner(ownerID); err != nil {
		return err
	}
	a, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.accountRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		return err
	}
	a.AddDomainEvent(account.NewAccountDeletedEvent(a))
	shared.PublishEvents(ctx, s.eventPublisher, a)
	return nil
}

func (s *AccountService) mutate(ctx context.Context, ownerID, id uuid.UUID, fn func(*account.Account) error) (*AccountResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	a, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, a)

	resp := ToAccountResponse(a)
	return &resp, nil
}
