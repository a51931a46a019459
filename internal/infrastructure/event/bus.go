package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fintrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus runs handlers synchronously in the publishing goroutine.
// Services publish after their write has committed, so a failing handler
// is logged and never undoes or fails the write.
type InMemoryEventBus struct {
	handlers *HandlerRegistry
	logger   *zap.Logger
	closed   atomic.Bool
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{handlers: NewHandlerRegistry(), logger: logger}
}

// Publish always returns nil. Events published after Stop are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.closed.Load() {
		b.logger.Warn("Event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	for _, ev := range events {
		for _, h := range b.handlers.GetHandlers(ev.EventType()) {
			if err := safeHandle(ctx, h, ev); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.String("event_id", ev.EventID().String()),
					zap.String("owner_id", ev.OwnerID().String()),
					zap.Error(err))
			}
		}
	}
	return nil
}

// Subscribe falls back to handler.EventTypes when no types are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.handlers.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.handlers.Unregister(handler)
}

func (b *InMemoryEventBus) Start(context.Context) error {
	b.closed.Store(false)
	b.logger.Info("Event bus started", zap.Int("handlers", b.handlers.Count()))
	return nil
}

// Stop returns at once: nothing is queued
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.closed.Store(true)
	b.logger.Info("Event bus stopped")
	return nil
}

// safeHandle turns a handler panic into an error
func safeHandle(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
