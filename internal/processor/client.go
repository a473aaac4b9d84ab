package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paybridgelabs/paybridge/internal/config"
)

// Client is a thin REST client for the Stripe API. Every call is bounded by
// the underlying http.Client timeout and the caller's context.
type Client struct {
	baseURL    string
	apiKey     string
	apiVersion string
	http       *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL:    cfg.Stripe.BaseURL,
		apiKey:     cfg.Stripe.SecretKey,
		apiVersion: cfg.Stripe.APIVersion,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) CreateEphemeralKey(ctx context.Context, customerID string) (*EphemeralKey, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidParams
	}
	data := url.Values{}
	data.Set("customer", customerID)

	var key EphemeralKey
	headers := map[string]string{"Stripe-Version": c.apiVersion}
	if err := c.do(ctx, http.MethodPost, "/v1/ephemeral_keys", data, headers, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*PaymentIntent, error) {
	if params.Amount <= 0 || strings.TrimSpace(params.Customer) == "" {
		return nil, ErrInvalidParams
	}
	data := url.Values{}
	data.Set("amount", strconv.FormatInt(params.Amount, 10))
	data.Set("currency", strings.ToLower(params.Currency))
	data.Set("customer", params.Customer)
	if params.AutomaticPaymentMethods {
		data.Set("automatic_payment_methods[enabled]", "true")
	}
	for k, v := range params.Metadata {
		data.Set("metadata["+k+"]", v)
	}

	var intent PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", data, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) CreateSetupIntent(ctx context.Context, customerID string) (*SetupIntent, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidParams
	}
	data := url.Values{}
	data.Set("customer", customerID)

	var intent SetupIntent
	if err := c.do(ctx, http.MethodPost, "/v1/setup_intents", data, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) CreateCustomer(ctx context.Context, params map[string]string) (*Customer, error) {
	data := url.Values{}
	for k, v := range params {
		data.Set(k, v)
	}

	var customer Customer
	if err := c.do(ctx, http.MethodPost, "/v1/customers", data, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidParams
	}
	var customer Customer
	if err := c.do(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil, nil, &customer); err != nil {
		return nil, err
	}
	if customer.Deleted {
		return nil, ErrNotFound
	}
	return &customer, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, data map[string]string) (*Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidParams
	}
	form := url.Values{}
	for k, v := range data {
		form.Set(k, v)
	}

	var customer Customer
	if err := c.do(ctx, http.MethodPost, "/v1/customers/"+url.PathEscape(id), form, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) (*Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidParams
	}
	var customer Customer
	if err := c.do(ctx, http.MethodDelete, "/v1/customers/"+url.PathEscape(id), nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreatePaymentMethod(ctx context.Context, params map[string]string) (*PaymentMethod, error) {
	data := url.Values{}
	for k, v := range params {
		data.Set(k, v)
	}

	var pm PaymentMethod
	if err := c.do(ctx, http.MethodPost, "/v1/payment_methods", data, nil, &pm); err != nil {
		return nil, err
	}
	return &pm, nil
}

func (c *Client) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*PaymentMethod, error) {
	if strings.TrimSpace(paymentMethodID) == "" || strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidParams
	}
	data := url.Values{}
	data.Set("customer", customerID)

	var pm PaymentMethod
	path := "/v1/payment_methods/" + url.PathEscape(paymentMethodID) + "/attach"
	if err := c.do(ctx, http.MethodPost, path, data, nil, &pm); err != nil {
		return nil, err
	}
	return &pm, nil
}

func (c *Client) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*PaymentMethod, error) {
	if strings.TrimSpace(paymentMethodID) == "" {
		return nil, ErrInvalidParams
	}
	var pm PaymentMethod
	path := "/v1/payment_methods/" + url.PathEscape(paymentMethodID) + "/detach"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &pm); err != nil {
		return nil, err
	}
	return &pm, nil
}

func (c *Client) ListCardPaymentMethods(ctx context.Context, customerID string) (*PaymentMethodList, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidParams
	}
	path := fmt.Sprintf("/v1/payment_methods?customer=%s&type=card", url.QueryEscape(customerID))

	var list PaymentMethodList
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, headers map[string]string, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var envelope errorEnvelope
		_ = json.Unmarshal(raw, &envelope)
		return &Error{
			Status:  resp.StatusCode,
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
