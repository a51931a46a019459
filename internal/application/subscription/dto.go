package subscription

import (
	"time"

	"github.com/fintrack/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionRequest creates or replaces a subscription
type SubscriptionRequest struct {
	Name             string          `json:"name" binding:"required,min=1,max=100"`
	AccountID        *uuid.UUID      `json:"account_id"`
	CategoryID       *uuid.UUID      `json:"category_id"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Currency         string          `json:"currency" binding:"required,currency"`
	Frequency        string          `json:"frequency" binding:"required,frequency"`
	StartDate        time.Time       `json:"start_date" binding:"required"`
	NextRenewalDate  *time.Time      `json:"next_renewal_date"`
	AutoRenew        bool            `json:"auto_renew"`
	NotifyDaysBefore int             `json:"notify_days_before" binding:"min=0,max=30"`
	Notes            string          `json:"notes"`
}

// SubscriptionListFilter represents subscription list query parameters
type SubscriptionListFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=active paused cancelled"`
	Frequency string `form:"frequency" binding:"omitempty,frequency"`
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	AccountID        *uuid.UUID      `json:"account_id"`
	CategoryID       *uuid.UUID      `json:"category_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Frequency        string          `json:"frequency"`
	Status           string          `json:"status"`
	StartDate        time.Time       `json:"start_date"`
	NextRenewalDate  time.Time       `json:"next_renewal_date"`
	AutoRenew        bool            `json:"auto_renew"`
	NotifyDaysBefore int             `json:"notify_days_before"`
	MonthlyCost      decimal.Decimal `json:"monthly_cost"`
	LastRenewedAt    *time.Time      `json:"last_renewed_at,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToSubscriptionResponse converts a domain subscription to a response
func ToSubscriptionResponse(s *subscription.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:               s.ID,
		Name:             s.Name,
		AccountID:        s.AccountID,
		CategoryID:       s.CategoryID,
		Amount:           s.Amount,
		Currency:         s.Currency.String(),
		Frequency:        s.Frequency.String(),
		Status:           s.Status.String(),
		StartDate:        s.StartDate,
		NextRenewalDate:  s.NextRenewalDate,
		AutoRenew:        s.AutoRenew,
		NotifyDaysBefore: s.NotifyDaysBefore,
		MonthlyCost:      s.MonthlyCost().Round(2),
		LastRenewedAt:    s.LastRenewedAt,
		CancelledAt:      s.CancelledAt,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
	}
}

// RenewalResponse reports a manual renewal
type RenewalResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	Charges      int                  `json:"charges"`
	Charged      bool                 `json:"charged"`
}

// RunReport summarizes one pass of a scheduled job
type RunReport struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Charges   int `json:"charges"`
	Notified  int `json:"notified"`
}
