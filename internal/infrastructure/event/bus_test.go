package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	txnCreated = "transaction.created"
	txnDeleted = "transaction.deleted"
	goalDone   = "goal.completed"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string, ownerID uuid.UUID) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), ownerID)}
}

type testHandler struct {
	eventTypes []string
	mu         sync.Mutex
	handled    []shared.DomainEvent
	err        error
	panics     bool
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panics {
		panic("handler exploded")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestHandlerRegistry(t *testing.T) {
	t.Run("typed and wildcard handlers", func(t *testing.T) {
		r := NewHandlerRegistry()
		typed := newTestHandler(txnCreated)
		all := newTestHandler()
		r.Register(typed, txnCreated, txnDeleted)
		r.Register(all)

		assert.Equal(t, []shared.EventHandler{typed, all}, r.GetHandlers(txnCreated))
		assert.Equal(t, []shared.EventHandler{all}, r.GetHandlers(goalDone))
		assert.Equal(t, 2, r.Count())
	})

	t.Run("unregister removes every subscription", func(t *testing.T) {
		r := NewHandlerRegistry()
		h := newTestHandler()
		r.Register(h, txnCreated, txnDeleted)
		r.Register(h)

		r.Unregister(h)
		assert.Empty(t, r.GetHandlers(txnCreated))
		assert.Empty(t, r.GetHandlers(txnDeleted))
		assert.Equal(t, 0, r.Count())
	})
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("routes by event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		created := newTestHandler(txnCreated)
		goals := newTestHandler(goalDone)
		bus.Subscribe(created)
		bus.Subscribe(goals)

		require.NoError(t, bus.Publish(ctx, newTestEvent(txnCreated, owner), newTestEvent(txnCreated, owner)))
		assert.Equal(t, 2, created.count())
		assert.Equal(t, 0, goals.count())
	})

	t.Run("explicit types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler(txnCreated)
		bus.Subscribe(h, txnDeleted)

		require.NoError(t, bus.Publish(ctx, newTestEvent(txnCreated, owner)))
		assert.Equal(t, 0, h.count())
		require.NoError(t, bus.Publish(ctx, newTestEvent(txnDeleted, owner)))
		assert.Equal(t, 1, h.count())
	})

	t.Run("failing and panicking handlers do not stop the others", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		bus := NewInMemoryEventBus(zap.New(core))
		failing := newTestHandler(txnCreated)
		failing.err = errors.New("boom")
		panicking := newTestHandler(txnCreated)
		panicking.panics = true
		healthy := newTestHandler(txnCreated)
		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newTestEvent(txnCreated, owner)))
		assert.Equal(t, 1, healthy.count())
		assert.Equal(t, 2, logs.FilterMessage("Event handler failed").Len())
	})

	t.Run("unsubscribed handlers stop receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler(txnCreated)
		bus.Subscribe(h)
		require.NoError(t, bus.Publish(ctx, newTestEvent(txnCreated, owner)))
		bus.Unsubscribe(h)
		require.NoError(t, bus.Publish(ctx, newTestEvent(txnCreated, owner)))
		assert.Equal(t, 1, h.count())
	})

	t.Run("stopped bus drops events until restarted", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler()
		bus.Subscribe(h)

		require.NoError(t, bus.Stop(ctx))
		require.NoError(t, bus.Publish(ctx, newTestEvent(goalDone, owner)))
		assert.Equal(t, 0, h.count())

		require.NoError(t, bus.Start(ctx))
		require.NoError(t, bus.Publish(ctx, newTestEvent(goalDone, owner)))
		assert.Equal(t, 1, h.count())
	})
}
