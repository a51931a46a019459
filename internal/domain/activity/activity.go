package activity

import (
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action is the verb part of an activity entry
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionRenewed  Action = "renewed"
	ActionArchived Action = "archived"
	ActionOther    Action = "other"
)

const maxDescriptionLength = 500

// Activity is an append-only entry in a user's audit trail
type Activity struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Action      Action    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    uuid.UUID `json:"entity_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewActivity creates an activity entry
func NewActivity(ownerID uuid.UUID, action Action, entityType string, entityID uuid.UUID, description string) (*Activity, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner is required")
	}
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type cannot be empty")
	}
	if action == "" {
		action = ActionOther
	}
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLength {
		description = description[:maxDescriptionLength]
	}
	return &Activity{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

// FromEvent builds an activity entry from a domain event. Event types follow
// the "<entity>.<action>" convention, e.g. "transaction.created".
func FromEvent(event shared.DomainEvent) (*Activity, error) {
	entityType, action := splitEventType(event.EventType())
	if entityType == "" {
		entityType = strings.ToLower(event.AggregateType())
	}
	desc := ""
	if described, ok := event.(shared.DescribedEvent); ok {
		desc = described.Description()
	}
	a, err := NewActivity(event.OwnerID(), action, entityType, event.AggregateID(), desc)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = event.OccurredAt()
	return a, nil
}

func splitEventType(eventType string) (string, Action) {
	entity, verb, ok := strings.Cut(eventType, ".")
	if !ok {
		return "", ActionOther
	}
	return entity, Action(verb)
}
