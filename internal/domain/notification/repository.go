package notification

import (
	"context"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationFilter defines filtering options for notification queries
type NotificationFilter struct {
	shared.Filter
	UnreadOnly bool
	Type       *NotificationType
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Notification, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter NotificationFilter) ([]Notification, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter NotificationFilter) (int64, error)
	Save(ctx context.Context, notification *Notification) error
	// CreateIfAbsent inserts the notification unless one with the same owner and
	// dedupe key exists. It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, notification *Notification) (bool, error)
	MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error)
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
