package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/paybridgelabs/paybridge/internal/clock"
	"github.com/paybridgelabs/paybridge/internal/config"
	"github.com/paybridgelabs/paybridge/internal/observability/metrics"
	"github.com/paybridgelabs/paybridge/internal/processor"
	"github.com/paybridgelabs/paybridge/internal/registry"
	"github.com/paybridgelabs/paybridge/internal/session"
	"github.com/paybridgelabs/paybridge/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testWebhookSecret = "whsec_server_test"

var testNow = time.Unix(1_700_000_000, 0)

// stubProcessor fakes the upstream processor with call counting.
type stubProcessor struct {
	ephemeralKeyCalls  atomic.Int64
	paymentIntentCalls atomic.Int64
	setupIntentCalls   atomic.Int64
	customers          map[string]bool
	failCustomers      bool
}

func newStubProcessor(customerIDs ...string) *stubProcessor {
	customers := make(map[string]bool, len(customerIDs))
	for _, id := range customerIDs {
		customers[id] = true
	}
	return &stubProcessor{customers: customers}
}

func (p *stubProcessor) CreateEphemeralKey(ctx context.Context, customerID string) (*processor.EphemeralKey, error) {
	p.ephemeralKeyCalls.Add(1)
	return &processor.EphemeralKey{ID: "ephkey_1", Secret: "ek_secret_" + customerID}, nil
}

func (p *stubProcessor) CreatePaymentIntent(ctx context.Context, params processor.PaymentIntentParams) (*processor.PaymentIntent, error) {
	p.paymentIntentCalls.Add(1)
	return &processor.PaymentIntent{ID: "pi_1", ClientSecret: "pi_secret_" + params.Customer}, nil
}

func (p *stubProcessor) CreateSetupIntent(ctx context.Context, customerID string) (*processor.SetupIntent, error) {
	p.setupIntentCalls.Add(1)
	return &processor.SetupIntent{ID: "seti_1", ClientSecret: "seti_secret_" + customerID}, nil
}

func (p *stubProcessor) CreateCustomer(ctx context.Context, params map[string]string) (*processor.Customer, error) {
	if p.failCustomers {
		return nil, &processor.Error{Status: 500, Message: "upstream down"}
	}
	return &processor.Customer{ID: "cus_new", Email: params["email"]}, nil
}

func (p *stubProcessor) GetCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	if !p.customers[id] {
		return nil, processor.ErrNotFound
	}
	return &processor.Customer{ID: id}, nil
}

func (p *stubProcessor) UpdateCustomer(ctx context.Context, id string, data map[string]string) (*processor.Customer, error) {
	return &processor.Customer{ID: id}, nil
}

func (p *stubProcessor) DeleteCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	return &processor.Customer{ID: id, Deleted: true}, nil
}

func (p *stubProcessor) CreatePaymentMethod(ctx context.Context, params map[string]string) (*processor.PaymentMethod, error) {
	return &processor.PaymentMethod{ID: "pm_new", Type: "card"}, nil
}

func (p *stubProcessor) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*processor.PaymentMethod, error) {
	return &processor.PaymentMethod{ID: paymentMethodID, Customer: customerID}, nil
}

func (p *stubProcessor) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*processor.PaymentMethod, error) {
	return &processor.PaymentMethod{ID: paymentMethodID}, nil
}

func (p *stubProcessor) ListCardPaymentMethods(ctx context.Context, customerID string) (*processor.PaymentMethodList, error) {
	return &processor.PaymentMethodList{Data: []processor.PaymentMethod{{ID: "pm_1", Type: "card"}}}, nil
}

type testHarness struct {
	router    *gin.Engine
	processor *stubProcessor
	dispatch  *webhook.Dispatcher
}

func newHarness(t *testing.T, customerIDs ...string) *testHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Port: 3000},
		Stripe: config.StripeConfig{
			SecretKey:      "sk_test_abc",
			PublishableKey: "pk_test_abc",
			WebhookSecret:  testWebhookSecret,
		},
		Webhook:  config.WebhookConfig{ToleranceSeconds: 300, RetentionHours: 72},
		Currency: "mxn",
	}

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&webhook.EventRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	m := metrics.New()
	log := zap.NewNop()
	proc := newStubProcessor(customerIDs...)

	dispatcher := webhook.NewDispatcher(webhook.NewGormLedger(gdb, node), log, m)
	webhook.NewIntentLifecycleHandlers(log).RegisterAll(dispatcher)

	srv := New(Params{
		Cfg:        cfg,
		Log:        log,
		Sessions:   session.NewOrchestrator(proc, proc, proc, cfg, log, m),
		Registry:   registry.NewService(proc, proc, log),
		Verifier:   webhook.NewVerifier(cfg, clock.Fixed{T: testNow}),
		Dispatcher: dispatcher,
		Metrics:    m,
	})

	return &testHarness{router: srv.Router(), processor: proc, dispatch: dispatcher}
}

func (h *testHarness) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)
	return resp
}

func signedWebhookRequest(body []byte, ts int64) *http.Request {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, body)
	header := fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))

	req := httptest.NewRequest(http.MethodPost, "/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", header)
	return req
}

func TestBuy(t *testing.T) {
	h := newHarness(t, "cus_1")

	resp := h.postJSON("/buy", `{"amount": 500, "idStripe": "cus_1"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "cus_1", body["customer"])
	assert.Equal(t, "pk_test_abc", body["publishableKey"])
	assert.NotEmpty(t, body["paymentIntent"])
	assert.NotEmpty(t, body["ephemeralKey"])
	assert.NotEqual(t, body["paymentIntent"], body["ephemeralKey"])
}

func TestBuyRejectsBadAmounts(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero", `{"amount": 0, "idStripe": "cus_1"}`},
		{"negative", `{"amount": -5, "idStripe": "cus_1"}`},
		{"non-numeric", `{"amount": "abc", "idStripe": "cus_1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, "cus_1")

			resp := h.postJSON("/buy", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, int64(0), h.processor.ephemeralKeyCalls.Load(), "no processor call on local rejection")
			assert.Equal(t, int64(0), h.processor.paymentIntentCalls.Load())
		})
	}
}

func TestPaymentSheet(t *testing.T) {
	h := newHarness(t, "cus_1")

	resp := h.postJSON("/payment-sheet", `{"idCustomer": "cus_1"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "cus_1", body["customer"])
	assert.NotEmpty(t, body["setupIntent"])
	assert.NotEmpty(t, body["ephemeralKey"])
}

func TestPaymentSheetUnknownCustomer(t *testing.T) {
	h := newHarness(t) // no customers upstream

	resp := h.postJSON("/payment-sheet", `{"idCustomer": "cus_missing"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, int64(0), h.processor.ephemeralKeyCalls.Load(), "no credential for nonexistent customer")
	assert.Equal(t, int64(0), h.processor.setupIntentCalls.Load())
}

func TestStripeWebhook(t *testing.T) {
	h := newHarness(t)
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","metadata":{"coin":"gold"}}}}`)

	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, signedWebhookRequest(body, testNow.Unix()))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok": true}`, resp.Body.String())
}

func TestStripeWebhookDuplicateAcks(t *testing.T) {
	h := newHarness(t)
	body := []byte(`{"id":"evt_dup","type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		h.router.ServeHTTP(resp, signedWebhookRequest(body, testNow.Unix()))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"ok": true}`, resp.Body.String())
	}
}

func TestStripeWebhookUnknownTypeAcks(t *testing.T) {
	h := newHarness(t)
	body := []byte(`{"id":"evt_x","type":"charge.refunded","data":{"object":{}}}`)

	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, signedWebhookRequest(body, testNow.Unix()))

	require.Equal(t, http.StatusOK, resp.Code)
}

func TestStripeWebhookRejectsTamperedBody(t *testing.T) {
	h := newHarness(t)
	body := []byte(`{"id":"evt_1","type":"payment_intent.created","data":{"object":{}}}`)

	signature := signedWebhookRequest(body, testNow.Unix()).Header.Get("Stripe-Signature")
	tampered := bytes.Replace(body, []byte("evt_1"), []byte("evt_2"), 1)

	req := httptest.NewRequest(http.MethodPost, "/stripe", bytes.NewReader(tampered))
	req.Header.Set("Stripe-Signature", signature)

	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStripeWebhookRejectsStaleTimestamp(t *testing.T) {
	h := newHarness(t)
	body := []byte(`{"id":"evt_1","type":"payment_intent.created","data":{"object":{}}}`)

	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, signedWebhookRequest(body, testNow.Unix()-301))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStripeWebhookMissingSignature(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/stripe", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStripeWebhookHandlerFailureReturns500(t *testing.T) {
	h := newHarness(t)
	h.dispatch.Register("invoice.paid", webhook.HandlerFunc(func(ctx context.Context, event *webhook.Event) error {
		return errors.New("downstream unavailable")
	}))

	body := []byte(`{"id":"evt_fail","type":"invoice.paid","data":{"object":{}}}`)
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, signedWebhookRequest(body, testNow.Unix()))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestCreateCustomer(t *testing.T) {
	h := newHarness(t)

	resp := h.postJSON("/create-customer", `{"email": "ana@example.com"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Message string             `json:"message"`
		Info    processor.Customer `json:"info"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, "cus_new", body.Info.ID)
}

func TestCreateCustomerProcessorFailure(t *testing.T) {
	h := newHarness(t)
	h.processor.failCustomers = true

	resp := h.postJSON("/create-customer", `{"email": "ana@example.com"}`)
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Contains(t, body, "message")
	assert.Contains(t, body, "error")
}

func TestRetrieveCustomerMissingID(t *testing.T) {
	h := newHarness(t)

	resp := h.postJSON("/retrieve-customer", `{"idCustomer": ""}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListPaymentMethodsUser(t *testing.T) {
	h := newHarness(t, "cus_1")

	resp := h.postJSON("/list-paymentMethods-user", `{"idCustomer": "cus_1"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Info processor.PaymentMethodList `json:"info"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Info.Data, 1)
	assert.Equal(t, "card", body.Info.Data[0].Type)
}

func TestAddPaymentMethodUser(t *testing.T) {
	h := newHarness(t, "cus_1")

	resp := h.postJSON("/add-paymentMethod-user", `{"idPaymentMethod": "pm_1", "idCustomer": "cus_1"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Info processor.PaymentMethod `json:"info"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "cus_1", body.Info.Customer)
}

func TestDeletePaymentMethodMissingID(t *testing.T) {
	h := newHarness(t)

	resp := h.postJSON("/delete-paymentMethod", `{"idPaymentMethod": ""}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}
