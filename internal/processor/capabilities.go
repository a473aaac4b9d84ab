package processor

import "context"

// CredentialIssuer mints short-lived, customer-scoped client credentials.
type CredentialIssuer interface {
	CreateEphemeralKey(ctx context.Context, customerID string) (*EphemeralKey, error)
}

// IntentCreator opens payment and setup intents on the processor side.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*PaymentIntent, error)
	CreateSetupIntent(ctx context.Context, customerID string) (*SetupIntent, error)
}

// CustomerRegistry is the processor's customer store.
type CustomerRegistry interface {
	CreateCustomer(ctx context.Context, params map[string]string) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	UpdateCustomer(ctx context.Context, id string, data map[string]string) (*Customer, error)
	DeleteCustomer(ctx context.Context, id string) (*Customer, error)
}

// PaymentMethodRegistry manages tokenized payment methods upstream.
type PaymentMethodRegistry interface {
	CreatePaymentMethod(ctx context.Context, params map[string]string) (*PaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*PaymentMethod, error)
	ListCardPaymentMethods(ctx context.Context, customerID string) (*PaymentMethodList, error)
}
