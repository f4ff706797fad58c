package app

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"palmpay/internal/authorize"
	"palmpay/internal/capture"
	"palmpay/internal/landmark"
)

// CameraConfig selects the video device and stream resolution.
type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CaptureConfig is the YAML shape of the capture tuning. Intervals are
// expressed in milliseconds so config files stay unit-explicit.
type CaptureConfig struct {
	StabilityThreshold float64 `yaml:"stability_threshold"`
	CaptureIntervalMS  int     `yaml:"capture_interval_ms"`
	PaymentQuota       int     `yaml:"payment_quota"`
	EnrollQuota        int     `yaml:"enroll_quota"`
}

// Config holds runtime wiring options for building the app. Zero-valued
// fields fall back to the defaults from Default.
type Config struct {
	Home string `yaml:"-"` // config directory, e.g. $HOME/.palmpay

	VerifyURL  string `yaml:"verify_url"`  // order/verification service base URL
	GatewayURL string `yaml:"gateway_url"` // hosted checkout base URL
	EngineURL  string `yaml:"engine_url"`  // landmark detection engine base URL

	Camera   CameraConfig         `yaml:"camera"`
	Capture  CaptureConfig        `yaml:"capture"`
	Detector landmark.Config      `yaml:"detector"`
	Tiers    authorize.TierConfig `yaml:"tiers"`

	VerifyTimeoutS int `yaml:"verify_timeout_seconds"`

	HTTP *http.Client `yaml:"-"` // optional; defaults to http.DefaultClient
}

// Default returns the production configuration.
func Default() Config {
	cap := capture.DefaultConfig()
	return Config{
		VerifyURL:  "http://127.0.0.1:8000",
		GatewayURL: "http://127.0.0.1:8090",
		EngineURL:  "http://127.0.0.1:8500",
		Camera:     CameraConfig{Device: 0, Width: 1280, Height: 720},
		Capture: CaptureConfig{
			StabilityThreshold: cap.StabilityThreshold,
			CaptureIntervalMS:  int(cap.CaptureInterval / time.Millisecond),
			PaymentQuota:       1,
			EnrollQuota:        5,
		},
		Detector:       landmark.DefaultConfig(),
		Tiers:          authorize.DefaultTierConfig(),
		VerifyTimeoutS: 30,
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// CaptureConfig converts the YAML tuning into the engine's form, with quota
// selecting between the payment and enrollment counts.
func (c Config) CaptureConfig(quota int) capture.Config {
	return capture.Config{
		StabilityThreshold: c.Capture.StabilityThreshold,
		CaptureInterval:    time.Duration(c.Capture.CaptureIntervalMS) * time.Millisecond,
		Quota:              quota,
	}
}

// WizardConfig builds the authorization wizard tuning.
func (c Config) WizardConfig() authorize.Config {
	return authorize.Config{
		Tiers:         c.Tiers,
		VerifyTimeout: time.Duration(c.VerifyTimeoutS) * time.Second,
	}
}
