package subscription

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// SubscriptionService handles subscription operations for the signed-in user
type SubscriptionService struct {
	subRepo        subscription.SubscriptionRepository
	accountRepo    account.AccountRepository
	categoryRepo   category.CategoryRepository
	renewals       *RenewalService
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subRepo subscription.SubscriptionRepository,
	accountRepo account.AccountRepository,
	categoryRepo category.CategoryRepository,
	renewals *RenewalService,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:      subRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		renewals:     renewals,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher for subscription events
func (s *SubscriptionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a subscription
func (s *SubscriptionService) Create(ctx context.Context, ownerID uuid.UUID, req SubscriptionRequest) (*SubscriptionResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	p, err := s.buildParams(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	sub, err := subscription.NewSubscription(ownerID, p)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, sub)
}

// GetByID returns one subscription
func (s *SubscriptionService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// List returns a page of subscriptions, soonest renewal first by default
func (s *SubscriptionService) List(ctx context.Context, ownerID uuid.UUID, filter SubscriptionListFilter) ([]SubscriptionResponse, int64, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	f := subscription.SubscriptionFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.Normalize(),
		AccountID: shared.OptionalID(filter.AccountID),
	}
	if filter.Status != "" {
		st := subscription.Status(filter.Status)
		f.Status = &st
	}
	if filter.Frequency != "" {
		fr := subscription.Frequency(filter.Frequency)
		f.Frequency = &fr
	}

	items, err := s.subRepo.FindAllForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.subRepo.CountForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(items), total, nil
}

// Upcoming lists active subscriptions renewing within the next days
func (s *SubscriptionService) Upcoming(ctx context.Context, ownerID uuid.UUID, days int) ([]SubscriptionResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}
	active, err := s.subRepo.FindActiveForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	until := now.AddDate(0, 0, days)
	var out []subscription.Subscription
	for _, sub := range active {
		if !sub.NextRenewalDate.After(until) {
			out = append(out, sub)
		}
	}
	return toResponses(out), nil
}

// Update replaces a subscription's values
func (s *SubscriptionService) Update(ctx context.Context, ownerID, id uuid.UUID, req SubscriptionRequest) (*SubscriptionResponse, error) {
	sub, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	p, err := s.buildParams(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := sub.Update(p); err != nil {
		return nil, err
	}
	return s.save(ctx, sub)
}

// Pause stops renewals
func (s *SubscriptionService) Pause(ctx context.Context, ownerID, id uuid.UUID) (*SubscriptionResponse, error) {
	return s.transition(ctx, ownerID, id, func(sub *subscription.Subscription) error { return sub.Pause() })
}

// Resume reactivates a paused subscription without charging the skipped periods
func (s *SubscriptionService) Resume(ctx context.Context, ownerID, id uuid.UUID) (*SubscriptionResponse, error) {
	now := s.now()
	return s.transition(ctx, ownerID, id, func(sub *subscription.Subscription) error { return sub.Resume(now) })
}

// Cancel ends a subscription permanently
func (s *SubscriptionService) Cancel(ctx context.Context, ownerID, id uuid.UUID) (*SubscriptionResponse, error) {
	return s.transition(ctx, ownerID, id, func(sub *subscription.Subscription) error { return sub.Cancel() })
}

// Renew runs the renewal for one subscription now, ahead of schedule when it
// is not yet due
func (s *SubscriptionService) Renew(ctx context.Context, ownerID, id uuid.UUID) (*RenewalResponse, error) {
	sub, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	outcome, err := s.renewals.RenewOne(ctx, sub, s.now(), true)
	if err != nil {
		return nil, err
	}
	return &RenewalResponse{
		Subscription: ToSubscriptionResponse(sub),
		Charges:      outcome.Charges,
		Charged:      outcome.Charges > 0,
	}, nil
}

// Delete removes a subscription; its booked transactions are kept
func (s *SubscriptionService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	sub, err := s.load(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.subRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		return err
	}
	sub.AddDomainEvent(subscription.NewSubscriptionEvent(subscription.EventTypeSubscriptionDeleted, sub))
	shared.PublishEvents(ctx, s.eventPublisher, sub)
	return nil
}

func (s *SubscriptionService) transition(ctx context.Context, ownerID, id uuid.UUID, fn func(*subscription.Subscription) error) (*SubscriptionResponse, error) {
	sub, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sub); err != nil {
		return nil, err
	}
	return s.save(ctx, sub)
}

func (s *SubscriptionService) load(ctx context.Context, ownerID, id uuid.UUID) (*subscription.Subscription, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.subRepo.FindByIDForOwner(ctx, ownerID, id)
}

func (s *SubscriptionService) save(ctx context.Context, sub *subscription.Subscription) (*SubscriptionResponse, error) {
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, sub)
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

func (s *SubscriptionService) buildParams(ctx context.Context, ownerID uuid.UUID, req SubscriptionRequest) (subscription.Params, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return subscription.Params{}, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	if req.AccountID != nil {
		a, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, *req.AccountID)
		if err != nil {
			return subscription.Params{}, err
		}
		if err := a.EnsureActive(); err != nil {
			return subscription.Params{}, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForOwner(ctx, ownerID, *req.CategoryID); err != nil {
			return subscription.Params{}, err
		}
	}
	return subscription.Params{
		Name:             req.Name,
		AccountID:        req.AccountID,
		CategoryID:       req.CategoryID,
		Amount:           req.Amount,
		Currency:         currency,
		Frequency:        subscription.Frequency(req.Frequency),
		StartDate:        req.StartDate,
		NextRenewalDate:  req.NextRenewalDate,
		AutoRenew:        req.AutoRenew,
		NotifyDaysBefore: req.NotifyDaysBefore,
		Notes:            req.Notes,
	}, nil
}

func toResponses(items []subscription.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(items))
	for i := range items {
		out[i] = ToSubscriptionResponse(&items[i])
	}
	return out
}
