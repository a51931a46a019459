package activity

import (
	"strings"
	"testing"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type describedEvent struct {
	shared.BaseDomainEvent
}

func (e *describedEvent) Description() string { return "Added expense of 12.50 USD" }

func TestNewActivity(t *testing.T) {
	owner := uuid.New()

	t.Run("valid", func(t *testing.T) {
		a, err := NewActivity(owner, ActionCreated, "goal", uuid.New(), "  Created goal Car  ")
		require.NoError(t, err)
		assert.Equal(t, "Created goal Car", a.Description)
		assert.Equal(t, ActionCreated, a.Action)
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := NewActivity(uuid.Nil, ActionCreated, "goal", uuid.New(), "")
		assert.Error(t, err)
	})

	t.Run("missing entity type", func(t *testing.T) {
		_, err := NewActivity(owner, ActionCreated, " ", uuid.New(), "")
		assert.Error(t, err)
	})

	t.Run("long description truncated", func(t *testing.T) {
		a, err := NewActivity(owner, "", "goal", uuid.New(), strings.Repeat("x", 600))
		require.NoError(t, err)
		assert.Len(t, a.Description, maxDescriptionLength)
		assert.Equal(t, ActionOther, a.Action)
	})
}

func TestFromEvent(t *testing.T) {
	owner := uuid.New()
	aggID := uuid.New()
	event := &describedEvent{BaseDomainEvent: shared.NewBaseDomainEvent("transaction.created", "Transaction", aggID, owner)}

	a, err := FromEvent(event)
	require.NoError(t, err)
	assert.Equal(t, owner, a.OwnerID)
	assert.Equal(t, aggID, a.EntityID)
	assert.Equal(t, "transaction", a.EntityType)
	assert.Equal(t, ActionCreated, a.Action)
	assert.Equal(t, "Added expense of 12.50 USD", a.Description)
	assert.Equal(t, event.OccurredAt(), a.CreatedAt)
}

func TestFromEvent_NoDotFallsBackToAggregateType(t *testing.T) {
	base := shared.NewBaseDomainEvent("Reset", "Settings", uuid.New(), uuid.New())
	a, err := FromEvent(&base)
	require.NoError(t, err)
	assert.Equal(t, "settings", a.EntityType)
	assert.Equal(t, ActionOther, a.Action)
	assert.Empty(t, a.Description)
}
