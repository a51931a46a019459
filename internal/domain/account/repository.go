package account

import (
	"context"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountFilter defines filtering options for account queries
type AccountFilter struct {
	shared.Filter
	Type            *AccountType
	IncludeArchived bool
}

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByIDForOwner finds an account owned by ownerID; other owners' accounts are not found
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Account, error)

	// FindAllForOwner lists accounts with filtering and paging
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter AccountFilter) ([]Account, error)

	// CountForOwner counts accounts matching the filter
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter AccountFilter) (int64, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// DeleteForOwner deletes an account together with its transactions
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// IsReferenced reports whether any transaction, as source or destination,
	// or any subscription points at the account
	IsReferenced(ctx context.Context, ownerID, id uuid.UUID) (bool, error)

	// ApplyDeltas atomically adds each delta to its account balance
	ApplyDeltas(ctx context.Context, ownerID uuid.UUID, deltas []BalanceDelta) error
}
