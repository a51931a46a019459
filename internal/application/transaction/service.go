package transaction

import (
	"context"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyConverter converts amounts between currencies
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error)
}

// TransactionService records ledger entries and keeps account balances in step
type TransactionService struct {
	txnRepo        transaction.TransactionRepository
	accountRepo    account.AccountRepository
	categoryRepo   category.CategoryRepository
	converter      CurrencyConverter
	eventPublisher shared.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txnRepo transaction.TransactionRepository,
	accountRepo account.AccountRepository,
	categoryRepo category.CategoryRepository,
	converter CurrencyConverter,
) *TransactionService {
	return &TransactionService{
		txnRepo:      txnRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		converter:    converter,
	}
}

// SetEventPublisher sets the publisher for transaction events
func (s *TransactionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records an entry and applies its balance effect atomically
func (s *TransactionService) Create(ctx context.Context, ownerID uuid.UUID, req TransactionRequest) (*TransactionResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOwnerID, ownerID.String(),
		telemetry.SpanAttrAccountID, req.AccountID.String(),
	)

	params, err := s.buildParams(ctx, ownerID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	txn, err := transaction.NewTransaction(ownerID, params)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.txnRepo.Create(ctx, txn, txn.BalanceDeltas()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, txn)

	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// GetByID returns one entry
func (s *TransactionService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*TransactionResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// List returns a page of entries, newest first by default
func (s *TransactionService) List(ctx context.Context, ownerID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	f := filter.ToDomainFilter()
	items, err := s.txnRepo.FindAllForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txnRepo.CountForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]TransactionResponse, len(items))
	for i := range items {
		out[i] = ToTransactionResponse(&items[i])
	}
	return out, total, nil
}

// Update replaces an entry. The old balance effect is reversed and the new one
// applied in the same database transaction.
func (s *TransactionService) Update(ctx context.Context, ownerID, id uuid.UUID, req TransactionRequest) (*TransactionResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	before := txn.BalanceDeltas()

	req.SubscriptionID = txn.SubscriptionID
	params, err := s.buildParams(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := txn.Update(params); err != nil {
		return nil, err
	}
	deltas := account.Merge(account.Reverse(before), txn.BalanceDeltas())
	if err := s.txnRepo.Update(ctx, txn, deltas); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, txn)

	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// Delete removes an entry and reverses its balance effect
func (s *TransactionService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := shared.RequireOwner(ownerID); err != nil {
		return err
	}
	txn, err := s.txnRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.txnRepo.Delete(ctx, txn, account.Reverse(txn.BalanceDeltas())); err != nil {
		return err
	}
	txn.MarkDeleted()
	shared.PublishEvents(ctx, s.eventPublisher, txn)
	return nil
}

// buildParams resolves accounts and category for the owner and converts the
// amount into each account's currency
func (s *TransactionService) buildParams(ctx context.Context, ownerID uuid.UUID, req TransactionRequest) (transaction.Params, error) {
	src, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, req.AccountID)
	if err != nil {
		return transaction.Params{}, err
	}
	if err := src.EnsureActive(); err != nil {
		return transaction.Params{}, err
	}

	currency := src.Currency
	if req.Currency != "" {
		currency, err = valueobject.ParseCurrency(req.Currency)
		if err != nil {
			return transaction.Params{}, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForOwner(ctx, ownerID, *req.CategoryID); err != nil {
			return transaction.Params{}, err
		}
	}

	converted, err := s.converter.Convert(ctx, req.Amount, currency, src.Currency)
	if err != nil {
		return transaction.Params{}, err
	}
	p := transaction.Params{
		AccountID:            src.ID,
		CategoryID:           req.CategoryID,
		Type:                 transaction.TransactionType(req.Type),
		Amount:               req.Amount,
		Currency:             currency,
		ConvertedAmount:      converted,
		DestinationAccountID: req.DestinationAccountID,
		Description:          req.Description,
		Notes:                req.Notes,
		Date:                 req.Date,
		SubscriptionID:       req.SubscriptionID,
	}

	if p.Type == transaction.TransactionTypeTransfer && req.DestinationAccountID != nil {
		dst, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, *req.DestinationAccountID)
		if err != nil {
			return transaction.Params{}, err
		}
		if err := dst.EnsureActive(); err != nil {
			return transaction.Params{}, err
		}
		if req.DestinationAmount != nil {
			p.DestinationAmount = *req.DestinationAmount
		} else {
			p.DestinationAmount, err = s.converter.Convert(ctx, req.Amount, currency, dst.Currency)
			if err != nil {
				return transaction.Params{}, err
			}
		}
	}
	return p, nil
}

func sharedFilter(f TransactionListFilter) shared.Filter {
	out := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	}.Normalize()
	if out.OrderBy == "" {
		out.OrderBy, out.OrderDir = "date", "desc"
	}
	return out
}
