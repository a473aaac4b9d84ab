package processor

import "encoding/json"

// EphemeralKey grants a client SDK time-boxed read access to one customer's
// payment methods. The secret is returned to the originating client only.
type EphemeralKey struct {
	ID      string `json:"id"`
	Secret  string `json:"secret"`
	Expires int64  `json:"expires"`
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Customer     string `json:"customer"`
	Status       string `json:"status"`
}

type SetupIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Customer     string `json:"customer"`
	Status       string `json:"status"`
}

type Customer struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Deleted  bool            `json:"deleted"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	Raw      json.RawMessage `json:"-"`
}

type PaymentMethod struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Customer string `json:"customer"`
	Card     struct {
		Brand    string `json:"brand"`
		Last4    string `json:"last4"`
		ExpMonth int    `json:"exp_month"`
		ExpYear  int    `json:"exp_year"`
	} `json:"card"`
}

type PaymentMethodList struct {
	Data    []PaymentMethod `json:"data"`
	HasMore bool            `json:"has_more"`
}

type PaymentIntentParams struct {
	Amount                  int64
	Currency                string
	Customer                string
	AutomaticPaymentMethods bool
	Metadata                map[string]string
}
