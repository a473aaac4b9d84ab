package webhook

import (
	"encoding/json"
	"errors"
	"time"
)

// Event is a notification delivered by the processor, authenticated by the
// Verifier before any business logic sees it.
type Event struct {
	ID         string
	Type       string
	Payload    json.RawMessage
	ReceivedAt time.Time
}

// Outcome classifies a dispatch. Duplicate and Ignored are expected no-ops,
// not failures.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeFailed    Outcome = "failed"
)

var (
	ErrMissingSignature = errors.New("missing_signature")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrStaleTimestamp   = errors.New("stale_timestamp")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrInvalidEvent     = errors.New("invalid_event")
)

// IsVerificationError reports whether err is a rejection produced by the
// Verifier, as opposed to a downstream processing failure.
func IsVerificationError(err error) bool {
	return errors.Is(err, ErrMissingSignature) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrStaleTimestamp) ||
		errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrInvalidEvent)
}
