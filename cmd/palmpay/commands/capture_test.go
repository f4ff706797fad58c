package commands

import (
	"context"
	"errors"
	"testing"

	"palmpay/internal/app"
	"palmpay/internal/capture"
	"palmpay/internal/domain"
)

type stubDetector struct{}

func (stubDetector) Detect(ctx context.Context, frame domain.Frame) (domain.LandmarkFrame, bool, error) {
	return domain.LandmarkFrame{}, false, nil
}

type stubSource struct{ closes int }

func (s *stubSource) Next(ctx context.Context) (domain.Frame, error) {
	return domain.Frame{}, errors.New("no frames scripted")
}

func (s *stubSource) Close() error {
	s.closes++
	return nil
}

// A session the engine rejects never takes ownership of the camera; the
// command layer still has to release the handle it opened.
func TestRejectedSessionReleasesWebcam(t *testing.T) {
	prev := appW
	defer func() { appW = prev }()
	appW = &app.Wire{Engine: capture.NewEngine(stubDetector{}, nil), Config: app.Default()}

	src := &stubSource{}
	_, err := runCapture(context.Background(), src, 0)
	if !errors.Is(err, capture.ErrInvalidQuota) {
		t.Fatalf("err = %v, want ErrInvalidQuota", err)
	}
	if src.closes == 0 {
		t.Fatal("webcam left open after rejected session")
	}
}
