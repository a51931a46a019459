package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationType categorizes user alerts
type NotificationType string

const (
	TypeSubscriptionUpcoming NotificationType = "subscription_upcoming"
	TypeSubscriptionRenewed  NotificationType = "subscription_renewed"
	TypeGoalCompleted        NotificationType = "goal_completed"
	TypeSystem               NotificationType = "system"
)

// IsValid checks if the type is a valid NotificationType
func (t NotificationType) IsValid() bool {
	switch t {
	case TypeSubscriptionUpcoming, TypeSubscriptionRenewed, TypeGoalCompleted, TypeSystem:
		return true
	}
	return false
}

// Notification is an alert shown to one user
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	OwnerID   uuid.UUID        `json:"owner_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID *uuid.UUID       `json:"related_id"`
	DedupeKey string           `json:"dedupe_key,omitempty"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewNotification creates an unread notification
func NewNotification(ownerID uuid.UUID, t NotificationType, title, message string, relatedID *uuid.UUID) (*Notification, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrForbidden
	}
	if !t.IsValid() {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION_TYPE", fmt.Sprintf("Notification type %q is not valid", t))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	return &Notification{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Type:      t,
		Title:     title,
		Message:   strings.TrimSpace(message),
		RelatedID: relatedID,
		CreatedAt: time.Now(),
	}, nil
}

// WithDedupeKey sets the key that makes the notification unique per owner
func (n *Notification) WithDedupeKey(key string) *Notification {
	n.DedupeKey = key
	return n
}

// MarkRead marks the notification read; it is a no-op when already read
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
}

// IsOwnedBy reports whether userID owns the notification
func (n *Notification) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && n.OwnerID == userID
}

// GetOwnerID returns the owning user
func (n *Notification) GetOwnerID() uuid.UUID {
	return n.OwnerID
}

// UpcomingRenewalKey is the per-subscription per-day dedupe key for renewal reminders
func UpcomingRenewalKey(subscriptionID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", TypeSubscriptionUpcoming, subscriptionID, day.UTC().Format("2006-01-02"))
}

// RenewedKey is the dedupe key for the renewal confirmation of one renewal date
func RenewedKey(subscriptionID uuid.UUID, renewalDate time.Time) string {
	return fmt.Sprintf("%s:%s:%s", TypeSubscriptionRenewed, subscriptionID, renewalDate.UTC().Format("2006-01-02"))
}
