package domain

import "context"

// Detector turns a camera frame into zero or one LandmarkFrame.
//
// The boolean result reports whether a hand was present; a false result with
// a nil error is the normal "no hand in frame" case. Implementations must
// preserve the fixed joint index contract of LandmarkFrame.
type Detector interface {
	Detect(ctx context.Context, frame Frame) (LandmarkFrame, bool, error)
}

// FrameSource is an exclusively-owned live camera stream. Next blocks until
// the next frame is available. Close releases the underlying device and is
// safe to call exactly once; owners must guarantee it is called on every
// exit path.
type FrameSource interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}

// CreateOrderRequest carries one authorization attempt to the verification
// service: the biometric evidence, the transfer details, and an idempotency
// key that stays constant across a secondary-factor resubmission of the same
// attempt.
type CreateOrderRequest struct {
	Image          Image
	Amount         float64
	Recipient      Recipient
	IdempotencyKey string
}

// CreateOrderResponse either hands back a gateway order, or flags that a
// secondary factor must be verified before an order is issued.
type CreateOrderResponse struct {
	OTPRequired bool
	PINRequired bool
	Message     string
	Order       Order
}

// SettlementRequest finalizes a gateway-confirmed payment server-side.
type SettlementRequest struct {
	PaymentID         string
	OrderID           string
	Signature         string
	BiometricVerified bool
}

// VerifyClient talks to the remote verification/order service. All calls
// honour the context deadline; callers are expected to set one.
type VerifyClient interface {
	Login(ctx context.Context, email, password string) (SessionContext, error)
	EnrollHand(ctx context.Context, images []Image) error
	CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error)
	VerifyOTP(ctx context.Context, code string, amount float64) error
	VerifyPIN(ctx context.Context, pin string, amount float64) error
	VerifyPayment(ctx context.Context, req SettlementRequest) error
}

// Checkout drives the third-party payment widget for an issued order.
//
// Open blocks until the widget completes, is dismissed, or fails. Dismissal
// without payment is reported as gateway.ErrDismissed so the caller can
// return to a recoverable state instead of treating it as a failure.
type Checkout interface {
	Open(ctx context.Context, order Order, intent TransactionIntent, session SessionContext) (Confirmation, error)
}

// SessionStore persists the local authenticated session, encrypted at rest.
type SessionStore interface {
	SaveSession(passphrase string, session SessionContext) error
	LoadSession(passphrase string) (SessionContext, bool, error)
	ClearSession() error
}

// ReceiptStore keeps local history of finalized payments.
type ReceiptStore interface {
	AppendReceipt(r Receipt) error
	ListReceipts() ([]Receipt, error)
}
