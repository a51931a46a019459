package settings

import (
	"fmt"
	"time"
	_ "time/tzdata" // user time zones must resolve without system zoneinfo

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// DefaultReminderDays is the renewal reminder lead time for new users
const DefaultReminderDays = 3

// UserSettings holds per-user preferences; there is exactly one row per user
type UserSettings struct {
	OwnerID              uuid.UUID            `json:"owner_id"`
	BaseCurrency         valueobject.Currency `json:"base_currency"`
	Locale               string               `json:"locale"`
	Timezone             string               `json:"timezone"`
	NotificationsEnabled bool                 `json:"notifications_enabled"`
	ReminderDays         int                  `json:"reminder_days"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// Defaults returns the settings a user starts with
func Defaults(ownerID uuid.UUID) *UserSettings {
	now := time.Now()
	return &UserSettings{
		OwnerID:              ownerID,
		BaseCurrency:         valueobject.DefaultCurrency,
		Locale:               "en-US",
		Timezone:             "UTC",
		NotificationsEnabled: true,
		ReminderDays:         DefaultReminderDays,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Patch holds optional changes; nil fields are left alone
type Patch struct {
	BaseCurrency         *valueobject.Currency
	Locale               *string
	Timezone             *string
	NotificationsEnabled *bool
	ReminderDays         *int
}

// Apply validates and applies a patch
func (s *UserSettings) Apply(p Patch) error {
	if p.BaseCurrency != nil {
		if !p.BaseCurrency.IsValid() {
			return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Currency %q is not valid", *p.BaseCurrency))
		}
		s.BaseCurrency = *p.BaseCurrency
	}
	if p.Locale != nil {
		tag, err := language.Parse(*p.Locale)
		if err != nil {
			return shared.NewDomainError("INVALID_LOCALE", fmt.Sprintf("Locale %q is not a valid language tag", *p.Locale))
		}
		s.Locale = tag.String()
	}
	if p.Timezone != nil {
		if _, err := time.LoadLocation(*p.Timezone); err != nil {
			return shared.NewDomainError("INVALID_TIMEZONE", fmt.Sprintf("Timezone %q is not known", *p.Timezone))
		}
		s.Timezone = *p.Timezone
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.ReminderDays != nil {
		if *p.ReminderDays < 0 || *p.ReminderDays > 30 {
			return shared.NewDomainError("INVALID_REMINDER_DAYS", "Reminder days must be between 0 and 30")
		}
		s.ReminderDays = *p.ReminderDays
	}
	s.UpdatedAt = time.Now()
	return nil
}

// Location returns the user's time zone, UTC when unset or unknown
func (s *UserSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil || s.Timezone == "" {
		return time.UTC
	}
	return loc
}
