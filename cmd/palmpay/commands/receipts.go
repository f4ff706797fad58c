package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// receipts: print local payment history, newest last.
func receiptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipts",
		Short: "List finalized payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := appW.Receipts.ListReceipts()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No payments recorded.")
				return nil
			}
			for _, r := range list {
				fmt.Printf("%s  %-10.2f  %-20s  %s (%s)\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Amount, r.Recipient.Name, r.PaymentID, r.Tier)
			}
			return nil
		},
	}
}
