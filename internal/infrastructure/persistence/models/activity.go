package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/activity"
	"github.com/google/uuid"
)

// ActivityModel is one audit trail row
type ActivityModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_activities_owner_created,priority:1"`
	Action      activity.Action `gorm:"type:varchar(40);not null"`
	EntityType  string          `gorm:"type:varchar(40);not null"`
	EntityID    uuid.UUID       `gorm:"type:uuid;index"`
	Description string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null;index:idx_activities_owner_created,priority:2"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the model to a domain Activity
func (m *ActivityModel) ToDomain() activity.Activity {
	return activity.Activity{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Action:      m.Action,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// ActivityModelFromDomain creates a model from a domain Activity
func ActivityModelFromDomain(a *activity.Activity) *ActivityModel {
	return &ActivityModel{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		Action:      a.Action,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Description: a.Description,
		CreatedAt:   utc(a.CreatedAt),
	}
}
