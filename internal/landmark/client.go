package landmark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"palmpay/internal/domain"
)

// ErrEngineUnavailable indicates the detection engine cannot be reached at
// all. It is fatal for a capture run: the caller must surface it rather than
// keep feeding frames into a dead engine.
var ErrEngineUnavailable = errors.New("landmark engine unavailable")

// Client is an HTTP adapter for the hand-landmark detection service.
type Client struct {
	Base string
	HTTP *http.Client
	Cfg  Config
}

// NewClient returns a Client for the engine at base using httpClient.
func NewClient(base string, httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Base: base, HTTP: httpClient, Cfg: cfg}
}

type detectResponse struct {
	Detected  bool           `json:"detected"`
	Landmarks []domain.Point `json:"landmarks"`
}

// Detect posts the frame to the engine and returns its landmarks, if any.
// A frame with no hand yields (zero, false, nil).
func (c *Client) Detect(ctx context.Context, frame domain.Frame) (domain.LandmarkFrame, bool, error) {
	var lf domain.LandmarkFrame

	q := url.Values{}
	q.Set("max_hands", strconv.Itoa(c.Cfg.MaxHands))
	q.Set("min_detection_confidence", strconv.FormatFloat(c.Cfg.MinDetectionConfidence, 'f', -1, 64))
	q.Set("min_tracking_confidence", strconv.FormatFloat(c.Cfg.MinTrackingConfidence, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/detect?"+q.Encode(), bytes.NewReader(frame.Data))
	if err != nil {
		return lf, false, err
	}
	req.Header.Set("Content-Type", frame.MIME)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return lf, false, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return lf, false, fmt.Errorf("engine detect: %s", resp.Status)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return lf, false, err
	}
	if !out.Detected {
		return lf, false, nil
	}
	if len(out.Landmarks) != domain.LandmarkCount {
		return lf, false, fmt.Errorf("engine returned %d landmarks, want %d", len(out.Landmarks), domain.LandmarkCount)
	}
	copy(lf[:], out.Landmarks)
	return lf, true, nil
}

// Ping verifies the engine is up before a capture session starts. A failed
// ping means the engine never initialized; callers treat it as fatal.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %s", ErrEngineUnavailable, resp.Status)
	}
	return nil
}

// Compile-time assertion that Client implements domain.Detector.
var _ domain.Detector = (*Client)(nil)
