package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"palmpay/internal/domain"
	"palmpay/internal/landmark"
)

var (
	// ErrInvalidQuota rejects a session with a non-positive capture quota
	// before it acquires the camera.
	ErrInvalidQuota = errors.New("capture quota must be positive")

	// ErrSessionActive rejects a second session while one owns the camera.
	ErrSessionActive = errors.New("a capture session is already active")
)

// Config tunes one capture session.
type Config struct {
	// StabilityThreshold is the maximum mean inter-frame joint motion, in
	// normalized coordinate units, for a hand to count as still.
	StabilityThreshold float64

	// CaptureInterval is the minimum wall-clock spacing between snapshots.
	CaptureInterval time.Duration

	// Quota is how many snapshots the session must produce.
	Quota int

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time

	// OnProgress, if set, is called after each snapshot with the running
	// count and the quota.
	OnProgress func(captured, quota int)

	// OnStatus, if set, is called once per processed frame with the
	// detection and stability classification.
	OnStatus func(handDetected, stable bool)
}

// DefaultConfig returns the production capture tuning.
func DefaultConfig() Config {
	return Config{
		StabilityThreshold: 0.005,
		CaptureInterval:    900 * time.Millisecond,
		Quota:              1,
	}
}

// Engine runs capture sessions against a landmark detector. At most one
// session may be active at a time across the whole engine.
type Engine struct {
	detector domain.Detector
	log      *slog.Logger

	mu     sync.Mutex
	active bool
}

// NewEngine returns an Engine using detector. logger may be nil.
func NewEngine(detector domain.Detector, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{detector: detector, log: logger}
}

// Run consumes frames from src until the quota is met, the context is
// cancelled, or the frame source fails. Once a session starts, Run owns src
// and closes it on every exit path; a session rejected before start
// (ErrInvalidQuota, ErrSessionActive) leaves ownership of src with the
// caller. On success the returned sequence holds exactly cfg.Quota images in
// capture order.
func (e *Engine) Run(ctx context.Context, src domain.FrameSource, cfg Config) ([]domain.Image, error) {
	if cfg.Quota <= 0 {
		// Reject before acquiring the camera; the caller keeps ownership.
		return nil, ErrInvalidQuota
	}

	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		return nil, ErrSessionActive
	}
	e.active = true
	e.mu.Unlock()

	defer func() {
		if err := src.Close(); err != nil {
			e.log.Warn("closing frame source", "err", err)
		}
		e.mu.Lock()
		e.active = false
		e.mu.Unlock()
	}()

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	var (
		prev        *domain.LandmarkFrame
		lastCapture time.Time
		images      = make([]domain.Image, 0, cfg.Quota)
	)

	for len(images) < cfg.Quota {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := src.Next(ctx)
		if err != nil {
			return nil, err
		}

		lf, detected, err := e.detector.Detect(ctx, frame)
		if err != nil {
			if errors.Is(err, landmark.ErrEngineUnavailable) {
				return nil, err
			}
			// A failed detection on one frame is just a missed frame.
			e.log.Debug("skipping frame", "err", err)
			continue
		}

		if !detected {
			// Stability must be re-established once the hand returns;
			// snapshots already taken are kept.
			prev = nil
			if cfg.OnStatus != nil {
				cfg.OnStatus(false, false)
			}
			continue
		}

		motion := maxMotion
		if prev != nil {
			motion = Motion(*prev, lf)
		}
		cp := lf
		prev = &cp

		stable := motion < cfg.StabilityThreshold
		if cfg.OnStatus != nil {
			cfg.OnStatus(true, stable)
		}
		if !stable {
			continue
		}

		t := now()
		if !lastCapture.IsZero() && t.Sub(lastCapture) < cfg.CaptureInterval {
			continue
		}

		// Snapshot comes from the video frame itself, not the landmarks.
		images = append(images, domain.Image{Data: frame.Data, MIME: frame.MIME})
		lastCapture = t
		e.log.Debug("captured", "n", len(images), "quota", cfg.Quota, "motion", motion)
		if cfg.OnProgress != nil {
			cfg.OnProgress(len(images), cfg.Quota)
		}
	}

	return images, nil
}
