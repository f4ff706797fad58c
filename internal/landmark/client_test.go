package landmark

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"palmpay/internal/domain"
)

func testFrame() domain.Frame {
	return domain.Frame{Data: []byte("jpeg-bytes"), MIME: "image/jpeg", Width: 640, Height: 480}
}

func TestDetectSendsFrameAndConfig(t *testing.T) {
	var gotQuery map[string]string
	var gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotQuery = map[string]string{
			"max_hands":                r.URL.Query().Get("max_hands"),
			"min_detection_confidence": r.URL.Query().Get("min_detection_confidence"),
		}
		pts := make([]domain.Point, domain.LandmarkCount)
		for i := range pts {
			pts[i] = domain.Point{X: float64(i), Y: 0.5}
		}
		_ = json.NewEncoder(w).Encode(detectResponse{Detected: true, Landmarks: pts})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), DefaultConfig())
	lf, detected, err := c.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !detected {
		t.Fatal("expected a detection")
	}
	if gotCT != "image/jpeg" {
		t.Fatalf("content type = %q", gotCT)
	}
	if gotQuery["max_hands"] != "1" || gotQuery["min_detection_confidence"] != "0.7" {
		t.Fatalf("config query = %v", gotQuery)
	}
	if lf[20].X != 20 {
		t.Fatalf("landmark 20 X = %v", lf[20].X)
	}
}

func TestDetectNoHand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(detectResponse{Detected: false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), DefaultConfig())
	_, detected, err := c.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if detected {
		t.Fatal("no hand should not report a detection")
	}
}

func TestDetectRejectsWrongLandmarkCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(detectResponse{Detected: true, Landmarks: make([]domain.Point, 5)})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), DefaultConfig())
	if _, _, err := c.Detect(context.Background(), testFrame()); err == nil {
		t.Fatal("want error for short landmark set")
	}
}

func TestUnreachableEngineIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, nil, DefaultConfig())
	_, _, err := c.Detect(context.Background(), testFrame())
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("Detect err = %v, want ErrEngineUnavailable", err)
	}
	if err := c.Ping(context.Background()); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("Ping err = %v, want ErrEngineUnavailable", err)
	}
}
