package shared

import "context"

// EventHandler reacts to published events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants; empty means all
	EventTypes() []string
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus fans published events out to subscribed handlers
type EventBus interface {
	EventPublisher
	// Subscribe registers handler for eventTypes, falling back to the
	// handler's own EventTypes when none are given
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// PublishEvents drains the buffered events of each aggregate into publisher.
// A nil publisher only clears the buffers.
func PublishEvents(ctx context.Context, publisher EventPublisher, aggregates ...AggregateRoot) {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		if events := agg.GetDomainEvents(); len(events) > 0 && publisher != nil {
			_ = publisher.Publish(ctx, events...)
		}
		agg.ClearDomainEvents()
	}
}
