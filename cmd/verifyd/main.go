package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	secret := flag.String("secret", "dev-gateway-secret", "signature secret shared with the checkout simulator")
	keyID := flag.String("key-id", "key_dev_palmpay", "gateway key id handed to clients")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := newServer(logger, *secret, *keyID)
	if err := srv.seedUser("Demo User", "demo@palmpay.test", "swordfish", "1234", true); err != nil {
		logger.Error("seed account", "err", err)
		os.Exit(1)
	}

	r := srv.routes()
	r.Use(accessLog(logger))

	logger.Info("verifyd listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		logger.Error("serve", "err", err)
		os.Exit(1)
	}
}

// accessLog records method, path, status and duration for each request.
func accessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"dur", time.Since(start).Round(time.Millisecond),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
