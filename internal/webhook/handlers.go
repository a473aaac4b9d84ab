package webhook

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// intentPayload is the slice of a payment-intent object the observational
// handlers care about.
type intentPayload struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// IntentLifecycleHandlers logs payment-intent lifecycle transitions. They are
// observational and safe to re-run.
type IntentLifecycleHandlers struct {
	log *zap.Logger
}

func NewIntentLifecycleHandlers(log *zap.Logger) *IntentLifecycleHandlers {
	return &IntentLifecycleHandlers{log: log.Named("webhook.intents")}
}

// RegisterAll binds the lifecycle handlers to their event types.
func (h *IntentLifecycleHandlers) RegisterAll(d *Dispatcher) {
	d.Register("payment_intent.created", HandlerFunc(h.created))
	d.Register("payment_intent.succeeded", HandlerFunc(h.succeeded))
}

func (h *IntentLifecycleHandlers) created(ctx context.Context, event *Event) error {
	intent, err := decodeIntent(event.Payload)
	if err != nil {
		return err
	}
	h.log.Info("payment initiated",
		zap.String("event_id", event.ID),
		zap.String("intent_id", intent.ID),
		zap.Int64("amount", intent.Amount),
		zap.String("currency", intent.Currency),
		zap.String("coin", intent.Metadata["coin"]))
	return nil
}

func (h *IntentLifecycleHandlers) succeeded(ctx context.Context, event *Event) error {
	intent, err := decodeIntent(event.Payload)
	if err != nil {
		return err
	}
	h.log.Info("payment succeeded",
		zap.String("event_id", event.ID),
		zap.String("intent_id", intent.ID),
		zap.Int64("amount", intent.Amount),
		zap.String("currency", intent.Currency),
		zap.String("coin", intent.Metadata["coin"]))
	return nil
}

func decodeIntent(payload json.RawMessage) (*intentPayload, error) {
	var intent intentPayload
	if err := json.Unmarshal(payload, &intent); err != nil {
		return nil, ErrInvalidPayload
	}
	return &intent, nil
}
