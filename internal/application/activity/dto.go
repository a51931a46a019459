package activity

import (
	"time"

	"github.com/fintrack/backend/internal/domain/activity"
	"github.com/google/uuid"
)

// ActivityListFilter represents activity list query parameters
type ActivityListFilter struct {
	EntityType string     `form:"entity_type" binding:"max=50"`
	EntityID   string     `form:"entity_id" binding:"omitempty,uuid"`
	Since      *time.Time `form:"since" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ActivityResponse represents one audit trail entry
type ActivityResponse struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    uuid.UUID `json:"entity_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToActivityResponse converts a domain activity to a response
func ToActivityResponse(a *activity.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Action:      string(a.Action),
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}
