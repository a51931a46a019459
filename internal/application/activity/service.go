package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/activity"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityService reads and prunes the audit trail
type ActivityService struct {
	repo   activity.ActivityRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo activity.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger, now: time.Now}
}

// List returns the user's recent activity, newest first
func (s *ActivityService) List(ctx context.Context, ownerID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	f := activity.ActivityFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		}.Normalize(),
		EntityType: filter.EntityType,
		EntityID:   shared.OptionalID(filter.EntityID),
		Since:      filter.Since,
	}
	items, err := s.repo.FindAllForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ActivityResponse, len(items))
	for i := range items {
		out[i] = ToActivityResponse(&items[i])
	}
	return out, total, nil
}

// Prune deletes entries older than retention. A non-positive retention keeps everything.
func (s *ActivityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-retention)
	n, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	s.logger.Info("Activity pruned", zap.Time("cutoff", cutoff), zap.Int64("deleted", n))
	return n, nil
}
