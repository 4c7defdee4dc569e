package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/audit"
	"github.com/rimu-cli/rimu/internal/gnupg"
	"github.com/rimu-cli/rimu/internal/utils"
)

var (
	verifyFrom   string
	verifyOutput string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Check the signature on a signed message",
	Long: `Checks the signature on an armored or clearsigned message from the
file argument or stdin, and prints the embedded text. With --from the
signer is additionally matched against the expected sender.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting verify command")
		spinner, cleanup := startSpinner("Verifying signature...", verbose)
		defer cleanup()

		payload, err := readPayload(args)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		svc := newService()
		result, err := svc.Verify(cmd.Context(), gnupg.Request{Payload: payload, ExpectedSender: verifyFrom})

		entry := audit.LogWithUser("verify")
		entry.ExpectedSender = verifyFrom
		if err != nil {
			entry.Outcome = "failed"
			entry.Detail = errClass(err)
			audit.Log(entry)
			spinner.FinalMSG = failureMessage("verify message", err)
			return nil
		}
		entry.Outcome = "ok"
		recordVerification(&entry, result.Verification)
		audit.Log(entry)

		spinner.Stop()
		if verifyOutput != "" {
			if err := utils.WriteMessageOutput(verifyOutput, result.Output); err != nil {
				spinner.FinalMSG = failureMessage("write verified message", err)
				return nil
			}
		}
		spinner.FinalMSG = renderVerification(result.Verification, verifyFrom)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyFrom, "from", "", "expected sender; matches the signer against this key")
	verifyCmd.Flags().StringVarP(&verifyOutput, "output", "o", "", "write the embedded message to a file")
}
