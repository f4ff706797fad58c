package app

import (
	"log/slog"
	"net/http"

	"palmpay/internal/capture"
	"palmpay/internal/domain"
	"palmpay/internal/gateway"
	"palmpay/internal/landmark"
	"palmpay/internal/store"
	"palmpay/internal/verify"
)

// Wire bundles all stores, clients, and engines for the CLI.
type Wire struct {
	Sessions domain.SessionStore
	Receipts domain.ReceiptStore
	Verify   *verify.HTTP
	Checkout *gateway.Hosted
	Detector *landmark.Client
	Engine   *capture.Engine
	HTTP     *http.Client
	Log      *slog.Logger
	Config   Config
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, logger *slog.Logger) (*Wire, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// File-based stores
	sessionStore := store.NewSessionFileStore(cfg.Home)
	receiptStore := store.NewReceiptFileStore(cfg.Home)

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// Service clients (all share the HTTP client)
	vc := verify.NewHTTP(cfg.VerifyURL, httpClient)
	detector := landmark.NewClient(cfg.EngineURL, httpClient, cfg.Detector)

	// Checkout gateway; commands install an interactive Proceed hook.
	checkout := gateway.NewHosted(cfg.GatewayURL, httpClient, nil)

	engine := capture.NewEngine(detector, logger)

	return &Wire{
		Sessions: sessionStore,
		Receipts: receiptStore,
		Verify:   vc,
		Checkout: checkout,
		Detector: detector,
		Engine:   engine,
		HTTP:     httpClient,
		Log:      logger,
		Config:   cfg,
	}, nil
}
