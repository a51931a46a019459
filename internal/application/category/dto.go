package category

import (
	"time"

	"github.com/fintrack/backend/internal/domain/category"
	"github.com/google/uuid"
)

// CategoryRequest creates or replaces a category
type CategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50"`
	Type  string `json:"type" binding:"required,oneof=expense income"`
	Icon  string `json:"icon" binding:"max=50"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// CategoryListFilter represents category list query parameters
type CategoryListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=expense income"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *category.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type.String(),
		Icon:      c.Icon,
		Color:     c.Color,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}
