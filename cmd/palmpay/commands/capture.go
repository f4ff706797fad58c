package commands

import (
	"context"
	"fmt"

	"palmpay/internal/domain"
	"palmpay/internal/landmark"
)

// captureImages runs one auto-capture session against the local webcam,
// printing hold/progress feedback as frames are classified.
func captureImages(ctx context.Context, quota int) ([]domain.Image, error) {
	if err := appW.Detector.Ping(ctx); err != nil {
		return nil, fmt.Errorf("landmark engine not reachable at %s: %w", appW.Config.EngineURL, err)
	}

	cam := appW.Config.Camera
	src, err := landmark.OpenWebcam(cam.Device, cam.Width, cam.Height)
	if err != nil {
		return nil, err
	}
	return runCapture(ctx, src, quota)
}

// runCapture feeds src to the engine. The engine closes src on the sessions
// it accepts; the deferred Close covers rejected ones. Close is idempotent,
// so the double close on accepted sessions is harmless.
func runCapture(ctx context.Context, src domain.FrameSource, quota int) ([]domain.Image, error) {
	defer func() { _ = src.Close() }()

	cfg := appW.Config.CaptureConfig(quota)
	lastStatus := ""
	cfg.OnStatus = func(handDetected, stable bool) {
		status := "Show your palm to the camera"
		switch {
		case handDetected && stable:
			status = "Hold still..."
		case handDetected:
			status = "Hand detected. Keep it steady"
		}
		if status != lastStatus {
			fmt.Printf("\r\033[K%s", status)
			lastStatus = status
		}
	}
	cfg.OnProgress = func(captured, quota int) {
		fmt.Printf("\r\033[KCaptured %d/%d\n", captured, quota)
		lastStatus = ""
	}

	images, err := appW.Engine.Run(ctx, src, cfg)
	fmt.Println()
	if err != nil {
		return nil, err
	}
	return images, nil
}
