package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"palmpay/internal/domain"
)

var (
	// ErrDismissed means the user closed the checkout without paying.
	// Callers return to the review step; the transaction stays intact.
	ErrDismissed = errors.New("checkout dismissed")

	// ErrUnavailable means the checkout surface could not be reached or
	// loaded at all for this attempt.
	ErrUnavailable = errors.New("checkout unavailable")
)

// Hosted drives a hosted checkout page over HTTP.
//
// Proceed is consulted once per Open with the order about to be paid; a
// false return is the user dismissing the widget. The CLI wires a terminal
// prompt here, tests wire a constant.
type Hosted struct {
	Base    string
	HTTP    *http.Client
	Proceed func(order domain.Order, intent domain.TransactionIntent) bool
}

// NewHosted returns a Hosted checkout against the gateway at base.
func NewHosted(base string, httpClient *http.Client, proceed func(domain.Order, domain.TransactionIntent) bool) *Hosted {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Hosted{Base: base, HTTP: httpClient, Proceed: proceed}
}

// Open presents the checkout for order and blocks until it completes or is
// dismissed. The session supplies prefill identity only; it never influences
// the payment itself.
func (h *Hosted) Open(ctx context.Context, order domain.Order, intent domain.TransactionIntent, session domain.SessionContext) (domain.Confirmation, error) {
	if h.Proceed != nil && !h.Proceed(order, intent) {
		return domain.Confirmation{}, ErrDismissed
	}

	in := struct {
		KeyID    string `json:"key_id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}{order.KeyID, order.Amount, order.Currency, session.Name, session.Email}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return domain.Confirmation{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Base+"/checkout/"+order.ID+"/pay", buf)
	if err != nil {
		return domain.Confirmation{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTP.Do(req)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return domain.Confirmation{}, fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}

	var conf domain.Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
		return domain.Confirmation{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return conf, nil
}

// Compile-time assertion that Hosted implements domain.Checkout.
var _ domain.Checkout = (*Hosted)(nil)
