package notification

import (
	"context"

	"github.com/fintrack/backend/internal/domain/notification"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationService serves the signed-in user's notification inbox
type NotificationService struct {
	repo notification.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns a page of notifications, newest first
func (s *NotificationService) List(ctx context.Context, ownerID uuid.UUID, filter NotificationListFilter) ([]NotificationResponse, int64, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	f := notification.NotificationFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		}.Normalize(),
		UnreadOnly: filter.UnreadOnly,
	}
	if filter.Type != "" {
		t := notification.NotificationType(filter.Type)
		f.Type = &t
	}
	items, err := s.repo.FindAllForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]NotificationResponse, len(items))
	for i := range items {
		out[i] = ToNotificationResponse(&items[i])
	}
	return out, total, nil
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, ownerID uuid.UUID) (*UnreadCountResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	n, err := s.repo.CountForOwner(ctx, ownerID, notification.NotificationFilter{UnreadOnly: true})
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: n}, nil
}

// MarkRead marks one notification read
func (s *NotificationService) MarkRead(ctx context.Context, ownerID, id uuid.UUID) (*NotificationResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	n, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead {
		n.MarkRead()
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification of the user read
func (s *NotificationService) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (*MarkAllReadResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	n, err := s.repo.MarkAllRead(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResponse{Updated: n}, nil
}

// Delete removes one notification
func (s *NotificationService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := shared.RequireOwner(ownerID); err != nil {
		return err
	}
	return s.repo.DeleteForOwner(ctx, ownerID, id)
}
