package dashboard

import (
	"time"

	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryResponse is the headline view of a user's finances, in the base currency
type SummaryResponse struct {
	BaseCurrency valueobject.Currency `json:"base_currency"`
	AsOf         time.Time            `json:"as_of"`

	NetWorth     decimal.Decimal `json:"net_worth"`
	AccountCount int             `json:"account_count"`

	Month        string          `json:"month"` // YYYY-MM, UTC
	MonthIncome  decimal.Decimal `json:"month_income"`
	MonthExpense decimal.Decimal `json:"month_expense"`
	MonthNet     decimal.Decimal `json:"month_net"`

	ActiveSubscriptions     int             `json:"active_subscriptions"`
	SubscriptionMonthlyCost decimal.Decimal `json:"subscription_monthly_cost"`

	InvestmentValue decimal.Decimal `json:"investment_value"`
	InvestmentCost  decimal.Decimal `json:"investment_cost"`
	InvestmentGain  decimal.Decimal `json:"investment_gain"`

	GoalCount          int             `json:"goal_count"`
	GoalsCompleted     int             `json:"goals_completed"`
	GoalSaved          decimal.Decimal `json:"goal_saved"`
	GoalTarget         decimal.Decimal `json:"goal_target"`
	UnreadNotification int64           `json:"unread_notifications"`
}

// SpendingQuery selects the range for the per-category breakdown. Dates
// default to the current UTC month.
type SpendingQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
	Type string     `form:"type" binding:"omitempty,oneof=expense income"`
}

// CategorySpending is one slice of the breakdown
type CategorySpending struct {
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Color        string          `json:"color,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Share        decimal.Decimal `json:"share"` // percent of the range total
}

// SpendingResponse is the per-category breakdown for a range
type SpendingResponse struct {
	BaseCurrency valueobject.Currency `json:"base_currency"`
	From         time.Time            `json:"from"`
	To           time.Time            `json:"to"`
	Type         string               `json:"type"`
	Total        decimal.Decimal      `json:"total"`
	Categories   []CategorySpending   `json:"categories"`
}

// CashFlowQuery selects how many trailing months to report
type CashFlowQuery struct {
	Months int `form:"months" binding:"omitempty,min=1,max=24"`
}

// CashFlowPoint is income against expense for one month
type CashFlowPoint struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowResponse lists every month in the window, oldest first
type CashFlowResponse struct {
	BaseCurrency valueobject.Currency `json:"base_currency"`
	Months       []CashFlowPoint      `json:"months"`
}
