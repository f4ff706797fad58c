package domain

import "time"

// LandmarkCount is the number of hand joints the detector reports per frame.
// Joint indices are fixed by the detection model; every consumer relies on
// index i of one frame corresponding to index i of the next.
const LandmarkCount = 21

// Point is a single detected hand keypoint in normalized image coordinates.
// X and Y are in [0,1]; Z is model-relative depth and may be zero.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LandmarkFrame is one detector observation: exactly LandmarkCount points in
// fixed joint order. Frames are immutable once produced.
type LandmarkFrame [LandmarkCount]Point

// Frame is a single camera frame as an encoded still image. The capture
// engine both feeds it to the detector and uses it verbatim as a snapshot.
type Frame struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Image is an opaque captured still with its declared MIME type.
type Image struct {
	Data []byte `json:"data"`
	MIME string `json:"mime"`
}

// Evidence is the cached biometric proof for one authorization attempt: the
// best captured image plus its content digest. It is created on the first
// successful capture, resubmitted unchanged if a secondary factor is required,
// and discarded on abort or final success.
type Evidence struct {
	Image  Image
	Digest [32]byte
}

// Recipient identifies where the money goes.
type Recipient struct {
	Name    string `json:"name"`
	Account string `json:"account"`
	IFSC    string `json:"ifsc"`
	Bank    string `json:"bank,omitempty"`
}

// TransactionIntent is the finalized transfer request: recipient, a strictly
// positive amount, and the risk tier derived from the amount. Immutable after
// the review step except for attached evidence and secondary-factor proof.
type TransactionIntent struct {
	Recipient Recipient
	Amount    float64
	Tier      Tier
}

// Tier is the required authentication strength for a transaction amount.
// The server is the source of truth; the client-side value is advisory
// (used for UX copy only) and never skips a server-declared factor.
type Tier int

const (
	// TierBiometric requires hand evidence only.
	TierBiometric Tier = iota
	// TierPIN requires hand evidence plus the secondary PIN.
	TierPIN
	// TierOTP requires hand evidence plus a one-time code sent out-of-band.
	TierOTP
)

func (t Tier) String() string {
	switch t {
	case TierPIN:
		return "biometric+pin"
	case TierOTP:
		return "biometric+otp"
	default:
		return "biometric"
	}
}

// State is the authorization wizard position. Transitions are owned by the
// wizard; nothing else mutates it.
type State int

const (
	StateRecipient State = iota
	StateAmount
	StateSummary
	StateBiometric
	StateVerifying
	StateSecondFactorOTP
	StateSecondFactorPIN
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateRecipient:
		return "recipient"
	case StateAmount:
		return "amount"
	case StateSummary:
		return "summary"
	case StateBiometric:
		return "biometric"
	case StateVerifying:
		return "verifying"
	case StateSecondFactorOTP:
		return "otp"
	case StateSecondFactorPIN:
		return "pin"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Order is the gateway order handle issued by the verification service once
// all required factors are satisfied.
type Order struct {
	ID       string `json:"order_id"`
	Amount   int64  `json:"amount"` // minor currency units, as the gateway wants it
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// Confirmation is the checkout widget's asynchronous completion payload.
type Confirmation struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Signature string `json:"signature"`
}

// SessionContext is the authenticated user's local session, injected
// explicitly wherever it is needed rather than read from ambient state.
type SessionContext struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Receipt records a finalized payment for local history.
type Receipt struct {
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Recipient Recipient `json:"recipient"`
	Amount    float64   `json:"amount"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}
