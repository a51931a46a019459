package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/settings"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// UserSettingsModel holds one row of preferences per user
type UserSettingsModel struct {
	OwnerID              uuid.UUID            `gorm:"type:uuid;primary_key"`
	BaseCurrency         valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Locale               string               `gorm:"type:varchar(35);not null;default:'en-US'"`
	Timezone             string               `gorm:"type:varchar(64);not null;default:'UTC'"`
	NotificationsEnabled bool                 `gorm:"not null;default:true"`
	ReminderDays         int                  `gorm:"not null;default:3"`
	CreatedAt            time.Time            `gorm:"not null"`
	UpdatedAt            time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserSettingsModel) TableName() string {
	return "user_settings"
}

// ToDomain converts the model to domain UserSettings
func (m *UserSettingsModel) ToDomain() *settings.UserSettings {
	return &settings.UserSettings{
		OwnerID:              m.OwnerID,
		BaseCurrency:         m.BaseCurrency,
		Locale:               m.Locale,
		Timezone:             m.Timezone,
		NotificationsEnabled: m.NotificationsEnabled,
		ReminderDays:         m.ReminderDays,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// UserSettingsModelFromDomain creates a model from domain UserSettings
func UserSettingsModelFromDomain(s *settings.UserSettings) *UserSettingsModel {
	return &UserSettingsModel{
		OwnerID:              s.OwnerID,
		BaseCurrency:         s.BaseCurrency,
		Locale:               s.Locale,
		Timezone:             s.Timezone,
		NotificationsEnabled: s.NotificationsEnabled,
		ReminderDays:         s.ReminderDays,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
