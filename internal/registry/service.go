package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/paybridgelabs/paybridge/internal/processor"
	"go.uber.org/zap"
)

var (
	ErrMissingCustomerID      = errors.New("missing_customer_id")
	ErrMissingPaymentMethodID = errors.New("missing_payment_method_id")
)

// Service is a validated pass-through to the processor's customer and
// payment-method stores. It adds no business logic beyond input checks.
type Service struct {
	customers      processor.CustomerRegistry
	paymentMethods processor.PaymentMethodRegistry
	log            *zap.Logger
}

func NewService(
	customers processor.CustomerRegistry,
	paymentMethods processor.PaymentMethodRegistry,
	log *zap.Logger,
) *Service {
	return &Service{
		customers:      customers,
		paymentMethods: paymentMethods,
		log:            log.Named("registry"),
	}
}

func (s *Service) CreateCustomer(ctx context.Context, params map[string]string) (*processor.Customer, error) {
	customer, err := s.customers.CreateCustomer(ctx, params)
	if err != nil {
		return nil, err
	}
	s.log.Info("customer created", zap.String("customer_id", customer.ID))
	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingCustomerID
	}
	return s.customers.GetCustomer(ctx, id)
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, data map[string]string) (*processor.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingCustomerID
	}
	return s.customers.UpdateCustomer(ctx, id, data)
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingCustomerID
	}
	customer, err := s.customers.DeleteCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("customer deleted", zap.String("customer_id", id))
	return customer, nil
}

func (s *Service) ListCardPaymentMethods(ctx context.Context, customerID string) (*processor.PaymentMethodList, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrMissingCustomerID
	}
	return s.paymentMethods.ListCardPaymentMethods(ctx, customerID)
}

func (s *Service) CreatePaymentMethod(ctx context.Context, params map[string]string) (*processor.PaymentMethod, error) {
	return s.paymentMethods.CreatePaymentMethod(ctx, params)
}

// AttachPaymentMethod associates a payment method with a customer. Detaching
// any prior association is the caller's responsibility.
func (s *Service) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*processor.PaymentMethod, error) {
	if strings.TrimSpace(paymentMethodID) == "" {
		return nil, ErrMissingPaymentMethodID
	}
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrMissingCustomerID
	}
	return s.paymentMethods.AttachPaymentMethod(ctx, paymentMethodID, customerID)
}

func (s *Service) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*processor.PaymentMethod, error) {
	if strings.TrimSpace(paymentMethodID) == "" {
		return nil, ErrMissingPaymentMethodID
	}
	return s.paymentMethods.DetachPaymentMethod(ctx, paymentMethodID)
}
