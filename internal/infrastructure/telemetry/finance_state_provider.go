package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormFinanceStateProvider implements FinanceStateProvider with aggregate
// queries across all owners.
type GormFinanceStateProvider struct {
	db *gorm.DB
}

// NewGormFinanceStateProvider creates a new GormFinanceStateProvider.
func NewGormFinanceStateProvider(db *gorm.DB) *GormFinanceStateProvider {
	return &GormFinanceStateProvider{db: db}
}

// CountSubscriptionsByStatus returns the number of subscriptions per status.
func (p *GormFinanceStateProvider) CountSubscriptionsByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("subscriptions").
		Select("status, COUNT(*) AS total").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Total
	}
	return m, nil
}

// CountUnreadNotifications returns the number of unread notifications.
func (p *GormFinanceStateProvider) CountUnreadNotifications(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("notifications").
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

// CountUsers returns the number of registered users.
func (p *GormFinanceStateProvider) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Table("users").Count(&count).Error
	return count, err
}
