package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"palmpay/internal/app"
	"palmpay/internal/domain"
)

var (
	home       string
	passphrase string
	appW       *app.Wire

	verifyURL  string
	gatewayURL string
	engineURL  string
	verbose    bool
)

func Execute() error {
	root := &cobra.Command{
		Use:   "palmpay",
		Short: "Gesture-authenticated payment CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".palmpay")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg, err := app.Load(filepath.Join(home, "config.yaml"))
			if err != nil {
				return err
			}
			cfg.Home = home
			if verifyURL != "" {
				cfg.VerifyURL = verifyURL
			}
			if gatewayURL != "" {
				cfg.GatewayURL = gatewayURL
			}
			if engineURL != "" {
				cfg.EngineURL = engineURL
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			appW, err = app.NewWire(cfg, logger)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.palmpay)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the stored session")
	root.PersistentFlags().StringVar(&verifyURL, "verify", "", "verification service base URL")
	root.PersistentFlags().StringVar(&gatewayURL, "gateway", "", "checkout gateway base URL")
	root.PersistentFlags().StringVar(&engineURL, "engine", "", "landmark engine base URL")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(loginCmd(), logoutCmd(), enrollCmd(), payCmd(), receiptsCmd())
	return root.Execute()
}

// currentSession loads the stored session and installs its bearer token on
// the verification client.
func currentSession() (domain.SessionContext, error) {
	if passphrase == "" {
		return domain.SessionContext{}, fmt.Errorf("passphrase required (-p)")
	}
	sess, ok, err := appW.Sessions.LoadSession(passphrase)
	if err != nil {
		return domain.SessionContext{}, err
	}
	if !ok {
		return domain.SessionContext{}, fmt.Errorf("not logged in. run: palmpay login")
	}
	appW.Verify.Token = sess.Token
	return sess, nil
}
