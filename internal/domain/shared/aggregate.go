package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot buffers the domain events raised by a write until the
// application service publishes them
type AggregateRoot interface {
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot adds the optimistic-lock version and the event buffer
type BaseAggregateRoot struct {
	BaseEntity
	Version int

	events []DomainEvent
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// IncrementVersion bumps Version after a mutation
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.events }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.events = nil }

// OwnedAggregateRoot is an aggregate root that belongs to exactly one user.
type OwnedAggregateRoot struct {
	BaseAggregateRoot
	OwnerID uuid.UUID
}

// NewOwnedAggregateRoot creates a new user-owned aggregate root
func NewOwnedAggregateRoot(ownerID uuid.UUID) OwnedAggregateRoot {
	return OwnedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		OwnerID:           ownerID,
	}
}

// GetOwnerID returns the owning user ID
func (o *OwnedAggregateRoot) GetOwnerID() uuid.UUID {
	return o.OwnerID
}

// IsOwnedBy reports whether userID owns the aggregate
func (o *OwnedAggregateRoot) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && o.OwnerID == userID
}

// Owned is implemented by every user-owned aggregate.
type Owned interface {
	GetOwnerID() uuid.UUID
	IsOwnedBy(userID uuid.UUID) bool
}

// EnsureOwner returns ErrForbidden for an anonymous caller and ErrNotFound when
// the record belongs to someone else.
func EnsureOwner(record Owned, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrForbidden
	}
	if !record.IsOwnedBy(userID) {
		return ErrNotFound
	}
	return nil
}

// RequireOwner returns ErrForbidden when no user is signed in
func RequireOwner(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrForbidden
	}
	return nil
}
