package authorize

import (
	"testing"

	"palmpay/internal/domain"
)

func TestTierForIsPureInAmount(t *testing.T) {
	cfg := DefaultTierConfig()
	cases := []struct {
		amount float64
		want   domain.Tier
	}{
		{100, domain.TierBiometric},
		{1999.99, domain.TierBiometric},
		{2000, domain.TierPIN},
		{5000, domain.TierPIN},
		{9999.99, domain.TierPIN},
		{10000, domain.TierOTP},
		{15000, domain.TierOTP},
	}
	for _, tc := range cases {
		if got := TierFor(tc.amount, cfg); got != tc.want {
			t.Errorf("TierFor(%v) = %v, want %v", tc.amount, got, tc.want)
		}
	}
}

func TestTierThresholdsAreConfiguration(t *testing.T) {
	cfg := TierConfig{PINThreshold: 50, OTPThreshold: 500}
	if got := TierFor(100, cfg); got != domain.TierPIN {
		t.Fatalf("TierFor(100) with lowered thresholds = %v, want TierPIN", got)
	}
	if got := TierFor(600, cfg); got != domain.TierOTP {
		t.Fatalf("TierFor(600) with lowered thresholds = %v, want TierOTP", got)
	}
}
