package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// enroll: capture a set of hand snapshots and register them with the
// verification service.
func enrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll",
		Short: "Register hand biometrics with the verification service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := currentSession(); err != nil {
				return err
			}

			quota := appW.Config.Capture.EnrollQuota
			fmt.Printf("Enrollment captures %d snapshots. Move your hand slightly between captures.\n", quota)
			images, err := captureImages(cmd.Context(), quota)
			if err != nil {
				return err
			}

			if err := appW.Verify.EnrollHand(cmd.Context(), images); err != nil {
				return err
			}
			fmt.Println("Hand biometrics registered.")
			return nil
		},
	}
}
