package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/paybridgelabs/paybridge/internal/clock"
	"github.com/paybridgelabs/paybridge/internal/config"
)

// Verifier authenticates inbound webhook deliveries. The body must be the
// exact byte stream as received; any re-serialization before verification
// invalidates the signature.
type Verifier struct {
	secret    string
	tolerance time.Duration
	clock     clock.Clock
}

func NewVerifier(cfg config.Config, clk clock.Clock) *Verifier {
	return &Verifier{
		secret:    cfg.Stripe.WebhookSecret,
		tolerance: time.Duration(cfg.Webhook.ToleranceSeconds) * time.Second,
		clock:     clk,
	}
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Verify checks the signature header against rawBody and, on success, parses
// the event envelope. It has no side effects beyond the comparison.
func (v *Verifier) Verify(ctx context.Context, rawBody []byte, sigHeader string) (*Event, error) {
	sigHeader = strings.TrimSpace(sigHeader)
	if sigHeader == "" {
		return nil, ErrMissingSignature
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp %q", ErrInvalidSignature, timestamp)
	}

	now := v.clock.Now(ctx)
	delta := now.Sub(time.Unix(ts, 0))
	if delta < 0 {
		delta = -delta
	}
	if delta > v.tolerance {
		return nil, ErrStaleTimestamp
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(rawBody))
	mac := hmac.New(sha256.New, []byte(v.secret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	matched := false
	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrInvalidSignature
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if strings.TrimSpace(envelope.ID) == "" || strings.TrimSpace(envelope.Type) == "" {
		return nil, ErrInvalidEvent
	}

	return &Event{
		ID:         envelope.ID,
		Type:       envelope.Type,
		Payload:    envelope.Data.Object,
		ReceivedAt: now,
	}, nil
}

func parseSignatureHeader(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var timestamp string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			timestamp = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, ErrInvalidSignature
	}
	return timestamp, signatures, nil
}
