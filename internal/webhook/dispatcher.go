package webhook

import (
	"context"
	"fmt"

	"github.com/paybridgelabs/paybridge/internal/observability/metrics"
	"go.uber.org/zap"
)

// Handler processes one verified event. Handlers must be side-effect
// idempotent as defense in depth; the ledger already guards redelivery.
type Handler interface {
	Handle(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the Handler capability.
type HandlerFunc func(ctx context.Context, event *Event) error

func (f HandlerFunc) Handle(ctx context.Context, event *Event) error { return f(ctx, event) }

// Dispatcher routes verified events to handlers keyed by event type, at most
// once per event id.
type Dispatcher struct {
	handlers map[string]Handler
	ledger   Ledger
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewDispatcher(ledger Ledger, log *zap.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		ledger:   ledger,
		log:      log.Named("webhook.dispatcher"),
		metrics:  m,
	}
}

// Register binds a handler to an event type. Later registrations for the same
// type replace earlier ones.
func (d *Dispatcher) Register(eventType string, handler Handler) {
	d.handlers[eventType] = handler
}

// Dispatch runs the handler for event at most once per event id.
//
// The ledger reservation happens before the handler so that two concurrent
// deliveries of the same id cannot both run it; a failed handler releases the
// reservation, leaving the event re-dispatchable by the processor's retry.
func (d *Dispatcher) Dispatch(ctx context.Context, event *Event) (Outcome, error) {
	handler, ok := d.handlers[event.Type]
	if !ok {
		// Unknown types are expected: the processor adds event types without
		// coordinating with us.
		d.log.Debug("ignoring unregistered event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
		d.observe(OutcomeIgnored)
		return OutcomeIgnored, nil
	}

	claimed, err := d.ledger.Reserve(ctx, event)
	if err != nil {
		d.observe(OutcomeFailed)
		return OutcomeFailed, fmt.Errorf("ledger reserve: %w", err)
	}
	if !claimed {
		d.log.Debug("duplicate event delivery",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
		d.observe(OutcomeDuplicate)
		return OutcomeDuplicate, nil
	}

	if err := handler.Handle(ctx, event); err != nil {
		if releaseErr := d.ledger.Release(ctx, event.ID); releaseErr != nil {
			d.log.Error("failed to release event after handler failure",
				zap.String("event_id", event.ID),
				zap.Error(releaseErr))
		}
		d.observe(OutcomeFailed)
		return OutcomeFailed, fmt.Errorf("handle %s: %w", event.Type, err)
	}

	d.observe(OutcomeProcessed)
	return OutcomeProcessed, nil
}

func (d *Dispatcher) observe(outcome Outcome) {
	d.metrics.ObserveWebhookOutcome(string(outcome))
}
