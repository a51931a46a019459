package event

import (
	"context"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Delivery outcomes reported on event_deliveries_total
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

var attrOutcome = attribute.Key("outcome")

// IdempotentHandler runs the wrapped handler at most once per event ID. The
// claim is taken before the handler runs and is kept when it fails, so a
// failed event is not retried until the claim expires.
type IdempotentHandler struct {
	inner      shared.EventHandler
	store      shared.IdempotencyStore
	cfg        shared.IdempotencyConfig
	prefix     string
	logger     *zap.Logger
	deliveries *telemetry.Counter
}

type IdempotentOption func(*IdempotentHandler)

func WithIdempotencyConfig(cfg shared.IdempotencyConfig) IdempotentOption {
	return func(h *IdempotentHandler) { h.cfg = cfg }
}

// WithKeyPrefix namespaces claims so two handlers of one event don't
// collide
func WithKeyPrefix(prefix string) IdempotentOption {
	return func(h *IdempotentHandler) { h.prefix = prefix }
}

// WithDeliveryMeter counts deliveries by outcome on meter
func WithDeliveryMeter(meter metric.Meter) IdempotentOption {
	return func(h *IdempotentHandler) {
		c, err := telemetry.NewCounter(meter, "event_deliveries_total", "Domain event deliveries by outcome", "{delivery}")
		if err != nil {
			h.logger.Warn("Event delivery counter unavailable", zap.Error(err))
			return
		}
		h.deliveries = c
	}
}

func NewIdempotentHandler(inner shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts ...IdempotentOption) *IdempotentHandler {
	h := &IdempotentHandler{
		inner:  inner,
		store:  store,
		cfg:    shared.DefaultIdempotencyConfig(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *IdempotentHandler) EventTypes() []string {
	return h.inner.EventTypes()
}

// Handle claims prefix+event ID, then runs the inner handler. A store error
// lets the event through: a rare duplicate is preferred to a lost event.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.cfg.Enabled {
		return h.inner.Handle(ctx, event)
	}

	id := event.EventID().String()
	fresh, err := h.store.MarkProcessed(ctx, h.prefix+id, h.cfg.TTL)
	switch {
	case err != nil:
		h.logger.Warn("Idempotency check failed, handling anyway",
			zap.String("event_id", id),
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	case !fresh:
		h.count(ctx, event, OutcomeDuplicate)
		return nil
	}

	if err := h.inner.Handle(ctx, event); err != nil {
		h.count(ctx, event, OutcomeFailed)
		return err
	}
	h.count(ctx, event, OutcomeProcessed)
	return nil
}

func (h *IdempotentHandler) count(ctx context.Context, event shared.DomainEvent, outcome string) {
	if h.deliveries == nil {
		return
	}
	h.deliveries.Inc(ctx, attrOutcome.String(outcome), telemetry.AttrEventType.String(event.EventType()))
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
