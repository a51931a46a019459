package goal

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/goal"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goal operations
type GoalService struct {
	goalRepo       goal.GoalRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo goal.GoalRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo, now: time.Now}
}

// SetEventPublisher sets the publisher for goal events
func (s *GoalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a goal
func (s *GoalService) Create(ctx context.Context, ownerID uuid.UUID, req GoalRequest) (*GoalResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	g, err := goal.NewGoal(ownerID, req.Name, req.TargetAmount, req.CurrentAmount, currency, req.Deadline)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, g)
}

// GetByID returns one goal
func (s *GoalService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*GoalResponse, error) {
	g, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToGoalResponse(g, s.now())
	return &resp, nil
}

// List returns a page of goals, nearest deadline first by default
func (s *GoalService) List(ctx context.Context, ownerID uuid.UUID, filter GoalListFilter) ([]GoalResponse, int64, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "deadline"
		filter.OrderDir = "asc"
	}
	f := goal.GoalFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.Normalize(),
		Completed: filter.Completed,
	}
	items, err := s.goalRepo.FindAllForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.goalRepo.CountForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]GoalResponse, len(items))
	for i := range items {
		out[i] = ToGoalResponse(&items[i], now)
	}
	return out, total, nil
}

// Update replaces name, target, currency and deadline
func (s *GoalService) Update(ctx context.Context, ownerID, id uuid.UUID, req GoalRequest) (*GoalResponse, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	return s.mutate(ctx, ownerID, id, func(g *goal.Goal) error {
		return g.Update(req.Name, req.TargetAmount, currency, req.Deadline)
	})
}

// Contribute adds to the saved amount; reaching the target completes the goal
func (s *GoalService) Contribute(ctx context.Context, ownerID, id uuid.UUID, amount decimal.Decimal) (*GoalResponse, error) {
	return s.mutate(ctx, ownerID, id, func(g *goal.Goal) error { return g.Contribute(amount) })
}

// Withdraw removes from the saved amount; dropping below the target reopens the goal
func (s *GoalService) Withdraw(ctx context.Context, ownerID, id uuid.UUID, amount decimal.Decimal) (*GoalResponse, error) {
	return s.mutate(ctx, ownerID, id, func(g *goal.Goal) error { return g.Withdraw(amount) })
}

// Delete removes a goal
func (s *GoalService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	g, err := s.load(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.goalRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		return err
	}
	g.AddDomainEvent(goal.NewGoalEvent(goal.EventTypeGoalDeleted, g))
	shared.PublishEvents(ctx, s.eventPublisher, g)
	return nil
}

func (s *GoalService) mutate(ctx context.Context, ownerID, id uuid.UUID, fn func(*goal.Goal) error) (*GoalResponse, error) {
	g, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(g); err != nil {
		return nil, err
	}
	return s.save(ctx, g)
}

func (s *GoalService) load(ctx context.Context, ownerID, id uuid.UUID) (*goal.Goal, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.goalRepo.FindByIDForOwner(ctx, ownerID, id)
}

func (s *GoalService) save(ctx context.Context, g *goal.Goal) (*GoalResponse, error) {
	if err := s.goalRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, g)
	resp := ToGoalResponse(g, s.now())
	return &resp, nil
}
