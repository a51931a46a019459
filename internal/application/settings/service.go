package settings

import (
	"context"
	"errors"

	"github.com/fintrack/backend/internal/domain/settings"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SettingsService reads and patches per-user preferences
type SettingsService struct {
	repo settings.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the user's settings, or the defaults when none are stored yet
func (s *SettingsService) Get(ctx context.Context, ownerID uuid.UUID) (*SettingsResponse, error) {
	p, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(p)
	return &resp, nil
}

// Load returns the domain settings of a user, falling back to the defaults
func (s *SettingsService) Load(ctx context.Context, ownerID uuid.UUID) (*settings.UserSettings, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByOwner(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.Defaults(ownerID), nil
	}
	return p, err
}

// Update applies a patch and stores the result
func (s *SettingsService) Update(ctx context.Context, ownerID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	p, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	patch := settings.Patch{
		Locale:               req.Locale,
		Timezone:             req.Timezone,
		NotificationsEnabled: req.NotificationsEnabled,
		ReminderDays:         req.ReminderDays,
	}
	if req.BaseCurrency != nil {
		c, err := valueobject.ParseCurrency(*req.BaseCurrency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
		patch.BaseCurrency = &c
	}
	if err := p.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(p)
	return &resp, nil
}

// EnsureDefaults stores the default settings for a new user
func (s *SettingsService) EnsureDefaults(ctx context.Context, ownerID uuid.UUID) error {
	if err := shared.RequireOwner(ownerID); err != nil {
		return err
	}
	_, err := s.repo.FindByOwner(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		return s.repo.Save(ctx, settings.Defaults(ownerID))
	}
	return err
}
