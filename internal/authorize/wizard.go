package authorize

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"palmpay/internal/classify"
	"palmpay/internal/domain"
	"palmpay/internal/gateway"
)

var (
	// ErrBadTransition reports a wizard method called from the wrong state.
	ErrBadTransition = errors.New("transition not allowed from current state")

	// ErrInvalidRecipient reports missing recipient fields; the form stays
	// in place.
	ErrInvalidRecipient = errors.New("recipient name, account and routing code are required")

	// ErrInvalidAmount reports a non-positive amount; the form stays in place.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNoEvidence reports a capture completion with no images.
	ErrNoEvidence = errors.New("capture produced no images")
)

// Config tunes the wizard.
type Config struct {
	// Tiers mirrors the server's escalation thresholds for UX copy.
	Tiers TierConfig

	// VerifyTimeout bounds each call to the verification/order service.
	VerifyTimeout time.Duration
}

// DefaultConfig returns the production wizard tuning.
func DefaultConfig() Config {
	return Config{Tiers: DefaultTierConfig(), VerifyTimeout: 30 * time.Second}
}

// Wizard owns the authorization state for one transfer.
type Wizard struct {
	verify   domain.VerifyClient
	checkout domain.Checkout
	session  domain.SessionContext
	cfg      Config
	log      *slog.Logger

	state     domain.State
	recipient domain.Recipient
	amount    float64
	evidence  *domain.Evidence
	attempt   string // idempotency key, constant across one attempt's resubmission
	gen       uint64 // bumped on Close; in-flight responses from older gens are discarded
	outcome   *classify.Outcome
	receipt   *domain.Receipt
}

// New returns a Wizard in the Recipient state. session is the explicit
// authenticated context used for checkout prefill.
func New(verify domain.VerifyClient, checkout domain.Checkout, session domain.SessionContext, cfg Config, logger *slog.Logger) *Wizard {
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = DefaultConfig().VerifyTimeout
	}
	if cfg.Tiers == (TierConfig{}) {
		cfg.Tiers = DefaultTierConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Wizard{
		verify:   verify,
		checkout: checkout,
		session:  session,
		cfg:      cfg,
		log:      logger,
		state:    domain.StateRecipient,
	}
}

// State reports the wizard's current position.
func (w *Wizard) State() domain.State { return w.state }

// LastOutcome is the most recent classified failure, or nil.
func (w *Wizard) LastOutcome() *classify.Outcome { return w.outcome }

// Receipt is the finalized payment record, set once Success is reached.
func (w *Wizard) Receipt() *domain.Receipt { return w.receipt }

// Intent is the transaction as currently entered.
func (w *Wizard) Intent() domain.TransactionIntent {
	return domain.TransactionIntent{
		Recipient: w.recipient,
		Amount:    w.amount,
		Tier:      TierFor(w.amount, w.cfg.Tiers),
	}
}

// SetRecipient validates the recipient and advances Recipient -> Amount.
func (w *Wizard) SetRecipient(r domain.Recipient) error {
	if w.state != domain.StateRecipient {
		return ErrBadTransition
	}
	if r.Name == "" || r.Account == "" || r.IFSC == "" {
		return ErrInvalidRecipient
	}
	w.recipient = r
	w.state = domain.StateAmount
	return nil
}

// SetAmount validates the amount and advances Amount -> Summary.
func (w *Wizard) SetAmount(amount float64) error {
	if w.state != domain.StateAmount {
		return ErrBadTransition
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	w.amount = amount
	w.state = domain.StateSummary
	return nil
}

// Back steps Amount -> Recipient or Summary -> Amount.
func (w *Wizard) Back() error {
	switch w.state {
	case domain.StateAmount:
		w.state = domain.StateRecipient
	case domain.StateSummary:
		w.state = domain.StateAmount
	default:
		return ErrBadTransition
	}
	return nil
}

// Confirm advances Summary -> Biometric; the caller then runs a capture
// session and feeds the result to CompleteCapture.
func (w *Wizard) Confirm() error {
	if w.state != domain.StateSummary {
		return ErrBadTransition
	}
	w.outcome = nil
	w.state = domain.StateBiometric
	return nil
}

// CompleteCapture accepts the capture session's image sequence, caches the
// best image as the attempt's evidence, and submits the attempt. A fresh
// idempotency key is minted here and reused if a secondary factor forces a
// resubmission of the same attempt.
func (w *Wizard) CompleteCapture(ctx context.Context, images []domain.Image) error {
	if w.state != domain.StateBiometric {
		return ErrBadTransition
	}
	if len(images) == 0 {
		return ErrNoEvidence
	}
	// A retried attempt may still hold the previous capture; zero it before
	// the replacement drops the last reference.
	w.discardEvidence()
	best := domain.Image{Data: append([]byte(nil), images[0].Data...), MIME: images[0].MIME}
	w.evidence = &domain.Evidence{Image: best, Digest: blake3.Sum256(best.Data)}
	w.attempt = uuid.NewString()
	w.submit(ctx)
	return nil
}

// SubmitOTP verifies the one-time code, then resubmits the cached evidence.
// A rejected code keeps the wizard in SecondFactorOTP with the rejection
// surfaced via LastOutcome.
func (w *Wizard) SubmitOTP(ctx context.Context, code string) error {
	if w.state != domain.StateSecondFactorOTP {
		return ErrBadTransition
	}
	w.secondFactor(ctx, func(cctx context.Context) error {
		return w.verify.VerifyOTP(cctx, code, w.amount)
	})
	return nil
}

// SubmitPIN verifies the secondary PIN, then resubmits the cached evidence.
// A rejected PIN keeps the wizard in SecondFactorPIN.
func (w *Wizard) SubmitPIN(ctx context.Context, pin string) error {
	if w.state != domain.StateSecondFactorPIN {
		return ErrBadTransition
	}
	w.secondFactor(ctx, func(cctx context.Context) error {
		return w.verify.VerifyPIN(cctx, pin, w.amount)
	})
	return nil
}

// Retry steps Error -> Summary, keeping recipient and amount intact.
func (w *Wizard) Retry() error {
	if w.state != domain.StateError {
		return ErrBadTransition
	}
	w.outcome = nil
	w.state = domain.StateSummary
	return nil
}

// Close aborts the flow from any state: evidence is discarded, all fields
// reset, and any in-flight response is discarded when it lands. The wizard
// is reusable afterwards, back in the Recipient state.
func (w *Wizard) Close() {
	w.gen++
	w.discardEvidence()
	w.recipient = domain.Recipient{}
	w.amount = 0
	w.attempt = ""
	w.outcome = nil
	w.receipt = nil
	w.state = domain.StateRecipient
}

// secondFactor runs one OTP/PIN verification and, on acceptance, resubmits
// the cached evidence atomically with the proof.
func (w *Wizard) secondFactor(ctx context.Context, check func(context.Context) error) {
	gen := w.gen
	cctx, cancel := context.WithTimeout(ctx, w.cfg.VerifyTimeout)
	err := check(cctx)
	cancel()
	if w.stale(gen) {
		return
	}
	if err != nil {
		out := classify.Classify(classify.OpSecondFactor, err)
		if out.Category == classify.SecondFactorRejected {
			// Inline rejection: stay in place for another try.
			w.outcome = out
			return
		}
		w.fail(out)
		return
	}
	w.outcome = nil
	if w.evidence == nil {
		w.fail(&classify.Outcome{Category: classify.ValidationError, Message: "Biometric cache lost. Please retry."})
		return
	}
	w.submit(ctx)
}

// submit drives evidence -> order -> checkout -> settlement.
func (w *Wizard) submit(ctx context.Context) {
	gen := w.gen
	w.state = domain.StateVerifying
	w.log.Debug("submitting attempt",
		"attempt", w.attempt,
		"evidence", hex.EncodeToString(w.evidence.Digest[:8]),
		"tier", TierFor(w.amount, w.cfg.Tiers).String(),
	)

	cctx, cancel := context.WithTimeout(ctx, w.cfg.VerifyTimeout)
	res, err := w.verify.CreateOrder(cctx, domain.CreateOrderRequest{
		Image:          w.evidence.Image,
		Amount:         w.amount,
		Recipient:      w.recipient,
		IdempotencyKey: w.attempt,
	})
	cancel()
	if w.stale(gen) {
		return
	}
	if err != nil {
		w.fail(classify.Classify(classify.OpCreateOrder, err))
		return
	}

	switch {
	case res.OTPRequired:
		w.state = domain.StateSecondFactorOTP
	case res.PINRequired:
		w.state = domain.StateSecondFactorPIN
	default:
		w.pay(ctx, gen, res.Order)
	}
}

// pay hands the order to the checkout widget and reconciles the result.
func (w *Wizard) pay(ctx context.Context, gen uint64, order domain.Order) {
	conf, err := w.checkout.Open(ctx, order, w.Intent(), w.session)
	if w.stale(gen) {
		return
	}
	if errors.Is(err, gateway.ErrDismissed) {
		// User closed the widget without paying: recoverable, not an error.
		w.state = domain.StateSummary
		return
	}
	if err != nil {
		w.fail(classify.Classify(classify.OpCheckout, err))
		return
	}

	w.state = domain.StateVerifying
	cctx, cancel := context.WithTimeout(ctx, w.cfg.VerifyTimeout)
	err = w.verify.VerifyPayment(cctx, domain.SettlementRequest{
		PaymentID:         conf.PaymentID,
		OrderID:           conf.OrderID,
		Signature:         conf.Signature,
		BiometricVerified: true,
	})
	cancel()
	if w.stale(gen) {
		return
	}
	if err != nil {
		w.fail(classify.Classify(classify.OpSettle, err))
		return
	}

	intent := w.Intent()
	w.receipt = &domain.Receipt{
		OrderID:   conf.OrderID,
		PaymentID: conf.PaymentID,
		Recipient: intent.Recipient,
		Amount:    intent.Amount,
		Tier:      intent.Tier.String(),
		CreatedAt: time.Now().UTC(),
	}
	w.discardEvidence()
	w.state = domain.StateSuccess
}

func (w *Wizard) fail(out *classify.Outcome) {
	w.log.Warn("authorization failed", "category", out.Category.String(), "msg", out.Message)
	w.outcome = out
	w.state = domain.StateError
}

// stale reports whether the flow was closed while a call was in flight; the
// response is discarded rather than applied to wizard state.
func (w *Wizard) stale(gen uint64) bool { return w.gen != gen }

// discardEvidence zeroes and drops the cached biometric image.
func (w *Wizard) discardEvidence() {
	if w.evidence == nil {
		return
	}
	for i := range w.evidence.Image.Data {
		w.evidence.Image.Data[i] = 0
	}
	w.evidence = nil
}
