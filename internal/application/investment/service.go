package investment

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/investment"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultSnapshotDays is the history window when no range is given
const defaultSnapshotDays = 30

// InvestmentService handles investment holdings
type InvestmentService struct {
	investmentRepo investment.InvestmentRepository
	snapshotRepo   investment.SnapshotRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(investmentRepo investment.InvestmentRepository, snapshotRepo investment.SnapshotRepository) *InvestmentService {
	return &InvestmentService{investmentRepo: investmentRepo, snapshotRepo: snapshotRepo, now: time.Now}
}

// SetEventPublisher sets the publisher for investment events
func (s *InvestmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a holding and records its first snapshot
func (s *InvestmentService) Create(ctx context.Context, ownerID uuid.UUID, req InvestmentRequest) (*InvestmentResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	p, err := toParams(req)
	if err != nil {
		return nil, err
	}
	inv, err := investment.NewInvestment(ownerID, p)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, inv)
}

// GetByID returns one holding
func (s *InvestmentService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*InvestmentResponse, error) {
	inv, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvestmentResponse(inv)
	return &resp, nil
}

// List returns a page of holdings
func (s *InvestmentService) List(ctx context.Context, ownerID uuid.UUID, filter InvestmentListFilter) ([]InvestmentResponse, int64, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
		filter.OrderDir = "asc"
	}
	f := investment.InvestmentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.Normalize(),
	}
	if filter.Type != "" {
		t := investment.InvestmentType(filter.Type)
		f.Type = &t
	}
	items, err := s.investmentRepo.FindAllForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.investmentRepo.CountForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvestmentResponse, len(items))
	for i := range items {
		out[i] = ToInvestmentResponse(&items[i])
	}
	return out, total, nil
}

// Update replaces a holding's values
func (s *InvestmentService) Update(ctx context.Context, ownerID, id uuid.UUID, req InvestmentRequest) (*InvestmentResponse, error) {
	inv, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	p, err := toParams(req)
	if err != nil {
		return nil, err
	}
	if err := inv.Update(p); err != nil {
		return nil, err
	}
	return s.save(ctx, inv)
}

// UpdatePrice records a market price and refreshes today's snapshot
func (s *InvestmentService) UpdatePrice(ctx context.Context, ownerID, id uuid.UUID, price decimal.Decimal) (*InvestmentResponse, error) {
	inv, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := inv.UpdatePrice(price); err != nil {
		return nil, err
	}
	return s.save(ctx, inv)
}

// Delete removes a holding together with its snapshots
func (s *InvestmentService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	inv, err := s.load(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.investmentRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		return err
	}
	inv.AddDomainEvent(investment.NewInvestmentEvent(investment.EventTypeInvestmentDeleted, inv))
	shared.PublishEvents(ctx, s.eventPublisher, inv)
	return nil
}

// Snapshots returns the value history of one holding, oldest first
func (s *InvestmentService) Snapshots(ctx context.Context, ownerID, id uuid.UUID, q SnapshotQuery) ([]SnapshotResponse, error) {
	if _, err := s.load(ctx, ownerID, id); err != nil {
		return nil, err
	}
	to := investment.TruncateDay(s.now())
	if q.To != nil {
		to = investment.TruncateDay(*q.To)
	}
	from := to.AddDate(0, 0, -defaultSnapshotDays)
	if q.From != nil {
		from = investment.TruncateDay(*q.From)
	}
	if from.After(to) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "From must not be after to")
	}
	rows, err := s.snapshotRepo.FindForInvestment(ctx, ownerID, id, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]SnapshotResponse, len(rows))
	for i, r := range rows {
		out[i] = SnapshotResponse{Date: r.Date, Price: r.Price, Quantity: r.Quantity, Value: r.Value.Round(2)}
	}
	return out, nil
}

func (s *InvestmentService) load(ctx context.Context, ownerID, id uuid.UUID) (*investment.Investment, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.investmentRepo.FindByIDForOwner(ctx, ownerID, id)
}

// save persists the holding and refreshes today's snapshot
func (s *InvestmentService) save(ctx context.Context, inv *investment.Investment) (*InvestmentResponse, error) {
	if err := s.investmentRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	if err := s.snapshotRepo.Upsert(ctx, inv.Snapshot(s.now())); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, inv)
	resp := ToInvestmentResponse(inv)
	return &resp, nil
}

func toParams(req InvestmentRequest) (investment.Params, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return investment.Params{}, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	return investment.Params{
		Name:          req.Name,
		Symbol:        req.Symbol,
		Type:          investment.InvestmentType(req.Type),
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		CurrentPrice:  req.CurrentPrice,
		Currency:      currency,
		PurchaseDate:  req.PurchaseDate,
	}, nil
}
