package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"palmpay/internal/authorize"
	"palmpay/internal/domain"
)

// pay: walk through a gesture-authenticated payment end to end.
func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay",
		Short: "Run a gesture-authenticated payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := currentSession()
			if err != nil {
				return err
			}

			// Confirm at the point the hosted checkout would open.
			appW.Checkout.Proceed = func(order domain.Order, intent domain.TransactionIntent) bool {
				fmt.Printf("Order %s issued for %s %.2f.\n", order.ID, order.Currency, intent.Amount)
				return promptYes(cmd, "Open checkout and pay?")
			}

			wiz := authorize.New(appW.Verify, appW.Checkout, sess, appW.Config.WizardConfig(), appW.Log)
			defer wiz.Close()

			ctx := cmd.Context()
			for {
				switch wiz.State() {
				case domain.StateRecipient:
					r, err := readRecipient(cmd)
					if err != nil {
						return err
					}
					if err := wiz.SetRecipient(r); err != nil {
						fmt.Println(err)
					}

				case domain.StateAmount:
					raw, err := promptLine(cmd, "Amount (INR): ")
					if err != nil {
						return err
					}
					amount, err := strconv.ParseFloat(raw, 64)
					if err != nil {
						fmt.Println("enter a number")
						continue
					}
					if err := wiz.SetAmount(amount); err != nil {
						fmt.Println(err)
					}

				case domain.StateSummary:
					intent := wiz.Intent()
					fmt.Printf("\nPay %.2f to %s (%s, %s)\n", intent.Amount, intent.Recipient.Name, intent.Recipient.Account, intent.Recipient.IFSC)
					fmt.Printf("Authentication: %s\n", describeTier(intent.Tier))
					if !promptYes(cmd, "Continue to biometric verification?") {
						return fmt.Errorf("payment cancelled")
					}
					if err := wiz.Confirm(); err != nil {
						return err
					}

				case domain.StateBiometric:
					images, err := captureImages(ctx, appW.Config.Capture.PaymentQuota)
					if err != nil {
						return err
					}
					if err := wiz.CompleteCapture(ctx, images); err != nil {
						return err
					}

				case domain.StateSecondFactorOTP:
					if out := wiz.LastOutcome(); out != nil {
						fmt.Println(out.Message)
					} else {
						fmt.Println("A one-time code has been sent to your registered contact.")
					}
					code, err := promptLine(cmd, "OTP: ")
					if err != nil {
						return err
					}
					if err := wiz.SubmitOTP(ctx, code); err != nil {
						return err
					}

				case domain.StateSecondFactorPIN:
					if out := wiz.LastOutcome(); out != nil {
						fmt.Println(out.Message)
					}
					pin, err := promptLine(cmd, "Transaction PIN: ")
					if err != nil {
						return err
					}
					if err := wiz.SubmitPIN(ctx, pin); err != nil {
						return err
					}

				case domain.StateSuccess:
					receipt := wiz.Receipt()
					if err := appW.Receipts.AppendReceipt(*receipt); err != nil {
						appW.Log.Warn("could not record receipt", "err", err)
					}
					fmt.Printf("\nPayment complete. Order %s, payment %s.\n", receipt.OrderID, receipt.PaymentID)
					return nil

				case domain.StateError:
					out := wiz.LastOutcome()
					fmt.Printf("\nPayment failed: %s\n", out.Message)
					if !promptYes(cmd, "Try again?") {
						return fmt.Errorf("payment failed: %s", out.Message)
					}
					if err := wiz.Retry(); err != nil {
						return err
					}

				default:
					return fmt.Errorf("unexpected state %s", wiz.State())
				}
			}
		},
	}
}

func readRecipient(cmd *cobra.Command) (domain.Recipient, error) {
	var r domain.Recipient
	var err error
	if r.Name, err = promptLine(cmd, "Recipient name: "); err != nil {
		return r, err
	}
	if r.Account, err = promptLine(cmd, "Account number: "); err != nil {
		return r, err
	}
	if r.IFSC, err = promptLine(cmd, "IFSC code: "); err != nil {
		return r, err
	}
	if r.Bank, err = promptLine(cmd, "Bank (optional): "); err != nil {
		return r, err
	}
	return r, nil
}

func describeTier(t domain.Tier) string {
	switch t {
	case domain.TierOTP:
		return "palm scan + one-time code"
	case domain.TierPIN:
		return "palm scan + transaction PIN"
	default:
		return "palm scan"
	}
}
