package persistence

import (
	"strings"

	"github.com/fintrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if it is whitelisted, else defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY clause from user input
func orderClause(orderBy, orderDir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(orderBy, allowed, defaultField) + " " + ValidateSortOrder(orderDir)
}

// AccountSortFields contains allowed sort fields for accounts
var AccountSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"currency":   true,
	"balance":    true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"type":       true,
}

// TransactionSortFields contains allowed sort fields for transactions
var TransactionSortFields = map[string]bool{
	"created_at":       true,
	"date":             true,
	"amount":           true,
	"converted_amount": true,
	"type":             true,
	"description":      true,
}

// SubscriptionSortFields contains allowed sort fields for subscriptions
var SubscriptionSortFields = map[string]bool{
	"created_at":        true,
	"name":              true,
	"amount":            true,
	"frequency":         true,
	"status":            true,
	"next_renewal_date": true,
}

// GoalSortFields contains allowed sort fields for goals
var GoalSortFields = map[string]bool{
	"created_at":     true,
	"name":           true,
	"target_amount":  true,
	"current_amount": true,
	"deadline":       true,
}

// InvestmentSortFields contains allowed sort fields for investments
var InvestmentSortFields = map[string]bool{
	"created_at":    true,
	"name":          true,
	"symbol":        true,
	"type":          true,
	"purchase_date": true,
	"current_price": true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"created_at": true,
	"type":       true,
	"is_read":    true,
}

// ActivitySortFields contains allowed sort fields for activities
var ActivitySortFields = map[string]bool{
	"created_at":  true,
	"entity_type": true,
	"action":      true,
}

// likePattern wraps a search term for a case-insensitive LOWER(col) LIKE match
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// paginate applies the filter's page window
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}
