package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/identity"
)

// UserModel is a row of users. Email is stored lower-cased.
type UserModel struct {
	AggregateModel
	Email             string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	DisplayName       string              `gorm:"type:varchar(100)"`
	PasswordHash      string              `gorm:"type:varchar(255);not null"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts    int                 `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	LastLoginAt       *time.Time
	PasswordChangedAt *time.Time
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{BaseAggregateRoot: m.ToDomainAggregateRoot()}
	u.Email, u.DisplayName, u.PasswordHash, u.Status = m.Email, m.DisplayName, m.PasswordHash, m.Status
	u.FailedAttempts, u.LockedUntil = m.FailedAttempts, utcPtr(m.LockedUntil)
	u.LastLoginAt, u.PasswordChangedAt = utcPtr(m.LastLoginAt), utcPtr(m.PasswordChangedAt)
	return u
}

func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		PasswordHash:      u.PasswordHash,
		Status:            u.Status,
		FailedAttempts:    u.FailedAttempts,
		LockedUntil:       u.LockedUntil,
		LastLoginAt:       u.LastLoginAt,
		PasswordChangedAt: u.PasswordChangedAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
