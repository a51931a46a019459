package settings

import (
	"context"

	"github.com/google/uuid"
)

// SettingsRepository defines the interface for user settings persistence
type SettingsRepository interface {
	// FindByOwner returns shared.ErrNotFound when the user has no settings row
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*UserSettings, error)
	Save(ctx context.Context, settings *UserSettings) error
	// FindMany returns the settings of the given users keyed by owner
	FindMany(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]*UserSettings, error)
}
