package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for notifications. NULL dedupe
// keys never conflict in the (owner_id, dedupe_key) unique index.
type NotificationModel struct {
	ID        uuid.UUID                     `gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID                     `gorm:"type:uuid;not null;index;uniqueIndex:idx_notifications_dedupe,priority:1"`
	Type      notification.NotificationType `gorm:"type:varchar(40);not null"`
	Title     string                        `gorm:"type:varchar(200);not null"`
	Message   string                        `gorm:"type:text"`
	RelatedID *uuid.UUID                    `gorm:"type:uuid"`
	DedupeKey *string                       `gorm:"type:varchar(200);uniqueIndex:idx_notifications_dedupe,priority:2"`
	IsRead    bool                          `gorm:"not null;default:false"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	n := &notification.Notification{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		RelatedID: m.RelatedID,
		IsRead:    m.IsRead,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
	if m.DedupeKey != nil {
		n.DedupeKey = *m.DedupeKey
	}
	return n
}

// NotificationModelFromDomain creates a model from a domain Notification.
// An empty dedupe key is stored as NULL so it never collides.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.DedupeKey != "" {
		key := n.DedupeKey
		m.DedupeKey = &key
	}
	return m
}
