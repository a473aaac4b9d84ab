package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/paybridgelabs/paybridge/internal/config"
	"github.com/paybridgelabs/paybridge/internal/observability/metrics"
	"github.com/paybridgelabs/paybridge/internal/processor"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidCustomer = errors.New("invalid_customer")
)

// PurchaseSession is everything a client SDK needs to collect a payment.
// Each secret is minted once per call and never cached.
type PurchaseSession struct {
	PaymentIntentSecret string `json:"paymentIntent"`
	EphemeralKeySecret  string `json:"ephemeralKey"`
	CustomerID          string `json:"customer"`
	PublishableKey      string `json:"publishableKey"`
}

// SetupSession is everything a client SDK needs to store a card.
type SetupSession struct {
	PublishableKey     string `json:"publishableKey"`
	SetupIntentSecret  string `json:"setupIntent"`
	EphemeralKeySecret string `json:"ephemeralKey"`
	CustomerID         string `json:"customer"`
}

// Orchestrator sequences the multi-step processor calls behind a session
// bootstrap. Steps are strictly ordered; each depends on the prior one.
type Orchestrator struct {
	credentials    processor.CredentialIssuer
	intents        processor.IntentCreator
	customers      processor.CustomerRegistry
	publishableKey string
	currency       string
	log            *zap.Logger
	metrics        *metrics.Metrics
}

func NewOrchestrator(
	credentials processor.CredentialIssuer,
	intents processor.IntentCreator,
	customers processor.CustomerRegistry,
	cfg config.Config,
	log *zap.Logger,
	m *metrics.Metrics,
) *Orchestrator {
	return &Orchestrator{
		credentials:    credentials,
		intents:        intents,
		customers:      customers,
		publishableKey: cfg.Stripe.PublishableKey,
		currency:       cfg.Currency,
		log:            log.Named("session"),
		metrics:        m,
	}
}

// BeginPurchase mints an ephemeral credential and opens a payment intent for
// amount (positive, minor units) scoped to customerID.
//
// A failure before the intent step leaves no orphaned intent. A failure after
// the credential step leaves an unused ephemeral key, which expires on its
// own upstream.
func (o *Orchestrator) BeginPurchase(ctx context.Context, customerID string, amount int64) (*PurchaseSession, error) {
	if strings.TrimSpace(customerID) == "" {
		o.metrics.ObserveSessionCall("begin_purchase", "rejected")
		return nil, ErrInvalidCustomer
	}
	if amount <= 0 {
		o.metrics.ObserveSessionCall("begin_purchase", "rejected")
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	key, err := o.credentials.CreateEphemeralKey(ctx, customerID)
	if err != nil {
		o.metrics.ObserveSessionCall("begin_purchase", "error")
		return nil, fmt.Errorf("create ephemeral key: %w", err)
	}

	intent, err := o.intents.CreatePaymentIntent(ctx, processor.PaymentIntentParams{
		Amount:                  amount,
		Currency:                o.currency,
		Customer:                customerID,
		AutomaticPaymentMethods: true,
	})
	if err != nil {
		o.metrics.ObserveSessionCall("begin_purchase", "error")
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	o.log.Info("purchase session opened",
		zap.String("customer_id", customerID),
		zap.Int64("amount", amount),
		zap.String("currency", o.currency))
	o.metrics.ObserveSessionCall("begin_purchase", "ok")

	return &PurchaseSession{
		PaymentIntentSecret: intent.ClientSecret,
		EphemeralKeySecret:  key.Secret,
		CustomerID:          customerID,
		PublishableKey:      o.publishableKey,
	}, nil
}

// BeginCardSetup verifies the customer exists, then mints an ephemeral
// credential and opens a setup intent. The existence check runs first so no
// credential is issued for a nonexistent customer.
func (o *Orchestrator) BeginCardSetup(ctx context.Context, customerID string) (*SetupSession, error) {
	if strings.TrimSpace(customerID) == "" {
		o.metrics.ObserveSessionCall("begin_card_setup", "rejected")
		return nil, ErrInvalidCustomer
	}

	if _, err := o.customers.GetCustomer(ctx, customerID); err != nil {
		result := "error"
		if errors.Is(err, processor.ErrNotFound) {
			result = "not_found"
		}
		o.metrics.ObserveSessionCall("begin_card_setup", result)
		return nil, fmt.Errorf("retrieve customer: %w", err)
	}

	key, err := o.credentials.CreateEphemeralKey(ctx, customerID)
	if err != nil {
		o.metrics.ObserveSessionCall("begin_card_setup", "error")
		return nil, fmt.Errorf("create ephemeral key: %w", err)
	}

	intent, err := o.intents.CreateSetupIntent(ctx, customerID)
	if err != nil {
		o.metrics.ObserveSessionCall("begin_card_setup", "error")
		return nil, fmt.Errorf("create setup intent: %w", err)
	}

	o.log.Info("card setup session opened", zap.String("customer_id", customerID))
	o.metrics.ObserveSessionCall("begin_card_setup", "ok")

	return &SetupSession{
		PublishableKey:     o.publishableKey,
		SetupIntentSecret:  intent.ClientSecret,
		EphemeralKeySecret: key.Secret,
		CustomerID:         customerID,
	}, nil
}
