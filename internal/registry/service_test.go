package registry

import (
	"context"
	"testing"

	"github.com/paybridgelabs/paybridge/internal/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) CreateCustomer(ctx context.Context, params map[string]string) (*processor.Customer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.Customer), args.Error(1)
}

func (m *mockRegistry) GetCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.Customer), args.Error(1)
}

func (m *mockRegistry) UpdateCustomer(ctx context.Context, id string, data map[string]string) (*processor.Customer, error) {
	args := m.Called(ctx, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.Customer), args.Error(1)
}

func (m *mockRegistry) DeleteCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.Customer), args.Error(1)
}

func (m *mockRegistry) CreatePaymentMethod(ctx context.Context, params map[string]string) (*processor.PaymentMethod, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.PaymentMethod), args.Error(1)
}

func (m *mockRegistry) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*processor.PaymentMethod, error) {
	args := m.Called(ctx, paymentMethodID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.PaymentMethod), args.Error(1)
}

func (m *mockRegistry) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*processor.PaymentMethod, error) {
	args := m.Called(ctx, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.PaymentMethod), args.Error(1)
}

func (m *mockRegistry) ListCardPaymentMethods(ctx context.Context, customerID string) (*processor.PaymentMethodList, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.PaymentMethodList), args.Error(1)
}

func newTestService(reg *mockRegistry) *Service {
	return NewService(reg, reg, zap.NewNop())
}

func TestGetCustomerValidatesID(t *testing.T) {
	reg := &mockRegistry{}
	svc := newTestService(reg)

	_, err := svc.GetCustomer(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCustomerID)
	reg.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
}

func TestAttachPaymentMethodValidation(t *testing.T) {
	reg := &mockRegistry{}
	svc := newTestService(reg)

	_, err := svc.AttachPaymentMethod(context.Background(), "", "cus_1")
	assert.ErrorIs(t, err, ErrMissingPaymentMethodID)

	_, err = svc.AttachPaymentMethod(context.Background(), "pm_1", "")
	assert.ErrorIs(t, err, ErrMissingCustomerID)

	reg.AssertNotCalled(t, "AttachPaymentMethod", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCustomerPassThrough(t *testing.T) {
	reg := &mockRegistry{}
	params := map[string]string{"email": "ana@example.com"}
	reg.On("CreateCustomer", mock.Anything, params).
		Return(&processor.Customer{ID: "cus_1", Email: "ana@example.com"}, nil)

	svc := newTestService(reg)
	customer, err := svc.CreateCustomer(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "cus_1", customer.ID)
	reg.AssertExpectations(t)
}

func TestListCardPaymentMethodsPassThrough(t *testing.T) {
	reg := &mockRegistry{}
	reg.On("ListCardPaymentMethods", mock.Anything, "cus_1").
		Return(&processor.PaymentMethodList{Data: []processor.PaymentMethod{{ID: "pm_1"}}}, nil)

	svc := newTestService(reg)
	list, err := svc.ListCardPaymentMethods(context.Background(), "cus_1")
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	reg.AssertExpectations(t)
}

func TestDetachPaymentMethodValidatesID(t *testing.T) {
	reg := &mockRegistry{}
	svc := newTestService(reg)

	_, err := svc.DetachPaymentMethod(context.Background(), " ")
	assert.ErrorIs(t, err, ErrMissingPaymentMethodID)
}
