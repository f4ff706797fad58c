package authorize

import "palmpay/internal/domain"

// TierConfig holds the amount thresholds at which stronger factors kick in.
// These mirror the server's configuration for UX copy only; the server
// remains the source of truth when an order is created.
type TierConfig struct {
	// PINThreshold is the lowest amount requiring biometric plus PIN.
	PINThreshold float64 `yaml:"pin_threshold"`
	// OTPThreshold is the lowest amount requiring biometric plus an
	// out-of-band one-time code.
	OTPThreshold float64 `yaml:"otp_threshold"`
}

// DefaultTierConfig returns the production thresholds.
func DefaultTierConfig() TierConfig {
	return TierConfig{PINThreshold: 2000, OTPThreshold: 10000}
}

// TierFor is a pure function of amount and thresholds.
func TierFor(amount float64, cfg TierConfig) domain.Tier {
	switch {
	case amount >= cfg.OTPThreshold:
		return domain.TierOTP
	case amount >= cfg.PINThreshold:
		return domain.TierPIN
	default:
		return domain.TierBiometric
	}
}
