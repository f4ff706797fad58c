package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"palmpay/internal/domain"
)

// HTTP talks to the verification/order service.
type HTTP struct {
	Base  string
	HTTP  *http.Client
	Token string // bearer token; empty for unauthenticated calls
}

// NewHTTP returns an HTTP client for the service at base.
func NewHTTP(base string, httpClient *http.Client) *HTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTP{Base: base, HTTP: httpClient}
}

// APIError is a non-2xx response from the service, with the backend's
// human-readable message and optional machine reason preserved.
type APIError struct {
	Status  int
	Message string
	Reason  string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Reason)
	}
	return e.Message
}

// errorDetail is the backend's two-shape failure payload: "detail" is either
// a bare string or an object carrying message and reason.
type errorDetail struct {
	Detail json.RawMessage `json:"detail"`
}

// decodeError collapses a failure response into *APIError.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	var wrapper errorDetail
	if json.Unmarshal(body, &wrapper) != nil || len(wrapper.Detail) == 0 {
		return apiErr
	}

	var s string
	if json.Unmarshal(wrapper.Detail, &s) == nil {
		apiErr.Message = s
		return apiErr
	}
	var obj struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if json.Unmarshal(wrapper.Detail, &obj) == nil && obj.Message != "" {
		apiErr.Message = obj.Message
		apiErr.Reason = obj.Reason
	}
	return apiErr
}

// Login authenticates and returns the session to inject elsewhere.
func (c *HTTP) Login(ctx context.Context, email, password string) (domain.SessionContext, error) {
	var out struct {
		AccessToken string `json:"access_token"`
		Name        string `json:"name"`
		Email       string `json:"email"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/auth/login", in, &out); err != nil {
		return domain.SessionContext{}, err
	}
	return domain.SessionContext{Name: out.Name, Email: out.Email, Token: out.AccessToken}, nil
}

// EnrollHand uploads the full capture sequence to register the user's hand.
func (c *HTTP) EnrollHand(ctx context.Context, images []domain.Image) error {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for i, img := range images {
		part, err := w.CreateFormFile("images", fmt.Sprintf("hand-%d.jpg", i))
		if err != nil {
			return err
		}
		if _, err := part.Write(img.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/biometric/register-hand", body, w.FormDataContentType(), nil, nil)
}

// createOrderWire mirrors the service's flat response: either secondary
// factor flags, or the gateway order fields.
type createOrderWire struct {
	OTPRequired bool   `json:"otp_required"`
	PINRequired bool   `json:"pin_required"`
	Message     string `json:"message"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id"`
}

// CreateOrder submits the biometric evidence and transfer details. The image
// travels as a multipart file part; the idempotency key rides in a header so
// a resubmission after a secondary factor targets the same attempt.
func (c *HTTP) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("image", "hand.jpg")
	if err != nil {
		return domain.CreateOrderResponse{}, err
	}
	if _, err := part.Write(req.Image.Data); err != nil {
		return domain.CreateOrderResponse{}, err
	}
	fields := map[string]string{
		"amount":         strconv.FormatFloat(req.Amount, 'f', -1, 64),
		"recipient_name": req.Recipient.Name,
		"account_number": req.Recipient.Account,
		"ifsc_code":      req.Recipient.IFSC,
	}
	if req.Recipient.Bank != "" {
		fields["bank_name"] = req.Recipient.Bank
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return domain.CreateOrderResponse{}, err
		}
	}
	if err := w.Close(); err != nil {
		return domain.CreateOrderResponse{}, err
	}

	headers := map[string]string{"X-Idempotency-Key": req.IdempotencyKey}
	var wire createOrderWire
	if err := c.do(ctx, http.MethodPost, "/payment/create-order", body, w.FormDataContentType(), headers, &wire); err != nil {
		return domain.CreateOrderResponse{}, err
	}
	return domain.CreateOrderResponse{
		OTPRequired: wire.OTPRequired,
		PINRequired: wire.PINRequired,
		Message:     wire.Message,
		Order: domain.Order{
			ID:       wire.OrderID,
			Amount:   wire.Amount,
			Currency: wire.Currency,
			KeyID:    wire.KeyID,
		},
	}, nil
}

// VerifyOTP checks a one-time code for the pending amount.
func (c *HTTP) VerifyOTP(ctx context.Context, code string, amount float64) error {
	in := struct {
		OTP    string  `json:"otp"`
		Amount float64 `json:"amount"`
	}{code, amount}
	return c.postJSON(ctx, "/payment/verify-otp", in, nil)
}

// VerifyPIN checks the secondary PIN for the pending amount.
func (c *HTTP) VerifyPIN(ctx context.Context, pin string, amount float64) error {
	in := struct {
		PIN    string  `json:"pin"`
		Amount float64 `json:"amount"`
	}{pin, amount}
	return c.postJSON(ctx, "/payment/verify-pin", in, nil)
}

// VerifyPayment finalizes settlement after the gateway confirms payment.
func (c *HTTP) VerifyPayment(ctx context.Context, req domain.SettlementRequest) error {
	in := struct {
		PaymentID         string `json:"gateway_payment_id"`
		OrderID           string `json:"gateway_order_id"`
		Signature         string `json:"gateway_signature"`
		BiometricVerified bool   `json:"biometric_verified"`
	}{req.PaymentID, req.OrderID, req.Signature, req.BiometricVerified}
	return c.postJSON(ctx, "/payment/verify-payment", in, nil)
}

func (c *HTTP) postJSON(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, buf, "application/json", nil, out)
}

func (c *HTTP) do(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("verify %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Compile-time assertion that HTTP implements domain.VerifyClient.
var _ domain.VerifyClient = (*HTTP)(nil)
