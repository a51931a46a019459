package investment

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvestmentFilter defines filtering options for investment queries
type InvestmentFilter struct {
	shared.Filter
	Type *InvestmentType
}

// InvestmentRepository defines the interface for investment persistence
type InvestmentRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Investment, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter InvestmentFilter) ([]Investment, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter InvestmentFilter) (int64, error)
	Save(ctx context.Context, investment *Investment) error
	// DeleteForOwner removes the investment and its snapshots
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
	// FindAllActive pages through investments of every owner, ordered by id
	FindAllActive(ctx context.Context, afterID uuid.UUID, limit int) ([]Investment, error)
}

// SnapshotRepository persists daily investment snapshots
type SnapshotRepository interface {
	// Upsert inserts or replaces the snapshot for (investment, date)
	Upsert(ctx context.Context, snapshot *Snapshot) error
	// FindForInvestment lists snapshots of one investment in [from, to], oldest first
	FindForInvestment(ctx context.Context, ownerID, investmentID uuid.UUID, from, to time.Time) ([]Snapshot, error)
}
