package landmark

// Config holds detection engine options.
type Config struct {
	// MaxHands is the maximum number of hands the engine may report.
	// The capture flow only ever uses the first, so this defaults to 1.
	MaxHands int `yaml:"max_hands"`

	// MinDetectionConfidence is the minimum confidence for an initial
	// detection to be reported (0.0-1.0).
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`

	// MinTrackingConfidence is the minimum confidence for tracking an
	// already-detected hand across frames (0.0-1.0).
	MinTrackingConfidence float64 `yaml:"min_tracking_confidence"`
}

// DefaultConfig returns the engine options used in production.
func DefaultConfig() Config {
	return Config{
		MaxHands:               1,
		MinDetectionConfidence: 0.7,
		MinTrackingConfidence:  0.7,
	}
}
