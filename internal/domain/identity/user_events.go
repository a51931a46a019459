package identity

import (
	"github.com/fintrack/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type of User events
const AggregateTypeUser = "User"

// User event types
const (
	EventTypeUserRegistered      = "user.registered"
	EventTypeUserPasswordChanged = "user.password_changed"
)

// UserRegisteredEvent is published when a user signs up
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID, u.ID),
		Email:           u.Email,
	}
}

// Description implements shared.DescribedEvent
func (e *UserRegisteredEvent) Description() string {
	return "Registered account " + e.Email
}

// UserPasswordChangedEvent is published when a user changes the password
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
}

// NewUserPasswordChangedEvent creates a UserPasswordChangedEvent
func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, u.ID, u.ID),
	}
}

// Description implements shared.DescribedEvent
func (e *UserPasswordChangedEvent) Description() string {
	return "Changed password"
}
