package classify

import (
	"errors"
	"net/http"

	"palmpay/internal/gateway"
	"palmpay/internal/verify"
)

// Category is the closed set of user-facing failure kinds.
type Category int

const (
	// ValidationError: malformed input or an unusable image; the current
	// form stays in place.
	ValidationError Category = iota + 1
	// BiometricMismatch: the server rejected the hand evidence; the flow
	// returns to review for a fresh capture.
	BiometricMismatch
	// SecondFactorRejected: bad PIN or OTP; surfaced inline, same state
	// retried.
	SecondFactorRejected
	// GatewayUnavailable: the checkout surface failed to load; terminal for
	// this attempt.
	GatewayUnavailable
	// SettlementFailed: the gateway reported success but server-side
	// verification failed. Distinct and more severe: money may have moved.
	SettlementFailed
	// TransportError: the backend or network is unreachable.
	TransportError
)

func (c Category) String() string {
	switch c {
	case ValidationError:
		return "validation_error"
	case BiometricMismatch:
		return "biometric_mismatch"
	case SecondFactorRejected:
		return "second_factor_rejected"
	case GatewayUnavailable:
		return "gateway_unavailable"
	case SettlementFailed:
		return "settlement_failed"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Op names the operation that produced a failure. The same backend status
// maps to different categories depending on where in the flow it happened.
type Op int

const (
	OpCreateOrder Op = iota + 1
	OpSecondFactor
	OpCheckout
	OpSettle
)

// Outcome is a classified failure: a category plus a message fit for the
// user. It implements error so it can flow through error returns.
type Outcome struct {
	Category Category
	Message  string
}

func (o *Outcome) Error() string { return o.Message }

// Classify maps err, raised by op, onto an Outcome. It never returns nil for
// a non-nil err; anything unrecognized is a TransportError with a generic
// message rather than a leaked internal detail.
func Classify(op Op, err error) *Outcome {
	if err == nil {
		return nil
	}

	if errors.Is(err, gateway.ErrUnavailable) {
		return &Outcome{GatewayUnavailable, "Payment gateway failed to load. Retry from the summary."}
	}

	var apiErr *verify.APIError
	if errors.As(err, &apiErr) {
		return classifyAPI(op, apiErr)
	}

	// Network failure, timeout, cancelled context, malformed response.
	return &Outcome{TransportError, "Could not reach the verification service. Check your connection and retry."}
}

func classifyAPI(op Op, apiErr *verify.APIError) *Outcome {
	msg := apiErr.Error()
	switch op {
	case OpSecondFactor:
		return &Outcome{SecondFactorRejected, msg}
	case OpSettle:
		return &Outcome{SettlementFailed, msg}
	case OpCreateOrder:
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &Outcome{BiometricMismatch, msg}
		case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusNotFound:
			return &Outcome{ValidationError, msg}
		}
	}
	return &Outcome{TransportError, msg}
}
