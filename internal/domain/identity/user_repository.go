package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users. Lookups that match nothing return
// shared.ErrNotFound; emails compare case-insensitively.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
}
