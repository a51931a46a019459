package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fintrack/backend/internal/domain/identity"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository stores users in the users table
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// emailIs matches the normalized form identity.NewUser stores
func emailIs(email string) func(*gorm.DB) *gorm.DB {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return func(db *gorm.DB) *gorm.DB { return db.Where("email = ?", normalized) }
}

func (r *GormUserRepository) first(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*identity.User, error) {
	var row models.UserModel
	err := r.db.WithContext(ctx).Scopes(scope).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, shared.ErrNotFound
	case err != nil:
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.first(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) })
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.first(ctx, emailIs(email))
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(emailIs(email)).Count(&n).Error
	return n > 0, err
}

// Save upserts the user row
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
}
