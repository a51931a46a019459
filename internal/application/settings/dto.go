package settings

import (
	"time"

	"github.com/fintrack/backend/internal/domain/settings"
)

// UpdateSettingsRequest patches user settings; omitted fields are unchanged
type UpdateSettingsRequest struct {
	BaseCurrency         *string `json:"base_currency" binding:"omitempty,currency"`
	Locale               *string `json:"locale" binding:"omitempty,max=35"`
	Timezone             *string `json:"timezone" binding:"omitempty,max=64"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	ReminderDays         *int    `json:"reminder_days" binding:"omitempty,min=0,max=30"`
}

// SettingsResponse represents user settings in API responses
type SettingsResponse struct {
	BaseCurrency         string    `json:"base_currency"`
	Locale               string    `json:"locale"`
	Timezone             string    `json:"timezone"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	ReminderDays         int       `json:"reminder_days"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ToSettingsResponse converts domain settings to a response
func ToSettingsResponse(s *settings.UserSettings) SettingsResponse {
	return SettingsResponse{
		BaseCurrency:         s.BaseCurrency.String(),
		Locale:               s.Locale,
		Timezone:             s.Timezone,
		NotificationsEnabled: s.NotificationsEnabled,
		ReminderDays:         s.ReminderDays,
		UpdatedAt:            s.UpdatedAt,
	}
}
