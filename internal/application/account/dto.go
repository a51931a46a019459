package account

import (
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents a request to open an account
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	Type           string          `json:"type" binding:"required,oneof=checking savings credit cash investment"`
	Currency       string          `json:"currency" binding:"required,currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// UpdateAccountRequest represents a request to edit an account
type UpdateAccountRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Type     string `json:"type" binding:"required,oneof=checking savings credit cash investment"`
	Currency string `json:"currency" binding:"required,currency"`
}

// AdjustBalanceRequest sets the balance to an absolute value
type AdjustBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
	Reason  string          `json:"reason" binding:"max=255"`
}

// AccountListFilter represents account list query parameters
type AccountListFilter struct {
	Search          string `form:"search"`
	Type            string `form:"type" binding:"omitempty,oneof=checking savings credit cash investment"`
	IncludeArchived bool   `form:"include_archived"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
	IsArchived bool            `json:"is_archived"`
	ArchivedAt *time.Time      `json:"archived_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToAccountResponse converts a domain account to a response
func ToAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Type:       a.Type.String(),
		Currency:   a.Currency.String(),
		Balance:    a.Balance,
		IsArchived: a.IsArchived,
		ArchivedAt: a.ArchivedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToAccountResponses converts a slice of accounts
func ToAccountResponses(accounts []account.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
