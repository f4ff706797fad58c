package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// login <email>: authenticate and store the session locally.
func loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate against the verification service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if password == "" {
				var err error
				password, err = promptLine(cmd, "Password: ")
				if err != nil {
					return err
				}
			}
			sess, err := appW.Verify.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err := appW.Sessions.SaveSession(passphrase, sess); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s <%s>\n", sess.Name, sess.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appW.Sessions.ClearSession(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
