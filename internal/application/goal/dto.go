package goal

import (
	"time"

	"github.com/fintrack/backend/internal/domain/goal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalRequest creates or replaces a goal
type GoalRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=100"`
	TargetAmount  decimal.Decimal `json:"target_amount" binding:"required"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Currency      string          `json:"currency" binding:"required,currency"`
	Deadline      *time.Time      `json:"deadline"`
}

// AmountRequest is a contribution or withdrawal
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// GoalListFilter represents goal list query parameters
type GoalListFilter struct {
	Search    string `form:"search"`
	Completed *bool  `form:"completed"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Remaining     decimal.Decimal `json:"remaining"`
	Progress      decimal.Decimal `json:"progress"`
	Currency      string          `json:"currency"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	IsCompleted   bool            `json:"is_completed"`
	IsOverdue     bool            `json:"is_overdue"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToGoalResponse converts a domain goal to a response
func ToGoalResponse(g *goal.Goal, now time.Time) GoalResponse {
	return GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Remaining:     g.Remaining(),
		Progress:      g.Progress(),
		Currency:      g.Currency.String(),
		Deadline:      g.Deadline,
		IsCompleted:   g.IsCompleted,
		IsOverdue:     g.IsOverdue(now),
		CompletedAt:   g.CompletedAt,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}
