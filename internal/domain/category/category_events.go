package category

import (
	"fmt"

	"github.com/fintrack/backend/internal/domain/shared"
)

const (
	EventTypeCategoryCreated = "category.created"
	EventTypeCategoryUpdated = "category.updated"
	EventTypeCategoryDeleted = "category.deleted"
)

// CategoryEvent is raised on category changes
type CategoryEvent struct {
	shared.BaseDomainEvent
	Name         string       `json:"name"`
	CategoryType CategoryType `json:"category_type"`
}

// Description implements shared.DescribedEvent
func (e *CategoryEvent) Description() string {
	switch e.EventType() {
	case EventTypeCategoryCreated:
		return fmt.Sprintf("Created category %s", e.Name)
	case EventTypeCategoryDeleted:
		return fmt.Sprintf("Deleted category %s", e.Name)
	default:
		return fmt.Sprintf("Updated category %s", e.Name)
	}
}

// NewCategoryEvent creates a category event of the given type
func NewCategoryEvent(eventType string, c *Category) *CategoryEvent {
	return &CategoryEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Category", c.ID, c.OwnerID),
		Name:            c.Name,
		CategoryType:    c.Type,
	}
}
