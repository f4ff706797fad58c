package capture

import (
	"math"
	"testing"

	"palmpay/internal/domain"
)

func uniformFrame(x, y float64) domain.LandmarkFrame {
	var lf domain.LandmarkFrame
	for i := range lf {
		lf[i] = domain.Point{X: x, Y: y}
	}
	return lf
}

func TestMotionZeroForIdenticalFrames(t *testing.T) {
	lf := uniformFrame(0.4, 0.6)
	if got := Motion(lf, lf); got != 0 {
		t.Fatalf("Motion(lf, lf) = %v, want 0", got)
	}
}

func TestMotionSymmetric(t *testing.T) {
	a := uniformFrame(0.40, 0.60)
	b := uniformFrame(0.43, 0.56)
	ab, ba := Motion(a, b), Motion(b, a)
	if math.Abs(ab-ba) > 1e-12 {
		t.Fatalf("Motion not symmetric: %v vs %v", ab, ba)
	}
}

func TestMotionIsMeanJointDisplacement(t *testing.T) {
	a := uniformFrame(0.5, 0.5)
	b := uniformFrame(0.5, 0.5)
	// Move a single joint by 0.021; the mean over 21 joints is 0.001.
	b[domain.LandmarkCount-1].X += 0.021

	got := Motion(a, b)
	if math.Abs(got-0.001) > 1e-9 {
		t.Fatalf("Motion = %v, want 0.001", got)
	}
}
