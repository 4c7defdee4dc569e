package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/audit"
	rerrors "github.com/rimu-cli/rimu/internal/errors"
	"github.com/rimu-cli/rimu/internal/gnupg"
	"github.com/rimu-cli/rimu/internal/ui"
	"github.com/rimu-cli/rimu/internal/utils"
)

var (
	decryptFrom   string
	decryptOutput string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt [file]",
	Short: "Decrypt an armored message",
	Long: `Decrypts an armored PGP message from the file argument or stdin.

With --from, the embedded signature is checked and the signer is
matched against the expected sender. A locked key prompts for the
passphrase on the terminal; the passphrase is handed to gpg through a
temporary file that is removed before the command returns.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		spinner, cleanup := startSpinner("Decrypting message...", verbose)
		defer cleanup()

		payload, err := readPayload(args)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		svc := newService()
		operation := "decrypt"
		call := svc.Decrypt
		if decryptFrom != "" {
			operation = "decrypt+verify"
			call = svc.DecryptVerify
		}

		result, err := call(cmd.Context(), gnupg.Request{Payload: payload, ExpectedSender: decryptFrom})

		// gpg exits non-zero when the secret key is locked and no
		// pinentry is available. Prompt once and retry with the
		// passphrase on the loopback channel.
		needsPassphrase := errors.Is(err, rerrors.ErrPassphraseRequired) || errors.Is(err, rerrors.ErrNonZeroExit)
		if err != nil && needsPassphrase && utils.IsTTYAvailable() {
			spinner.Stop()
			passphrase, promptErr := utils.ReadPassphraseFromTTY("Passphrase: ")
			if promptErr == nil && len(passphrase) > 0 {
				result, err = call(cmd.Context(), gnupg.Request{
					Payload:        payload,
					ExpectedSender: decryptFrom,
					Passphrase:     passphrase,
				})
			}
		}

		entry := audit.LogWithUser(operation)
		entry.ExpectedSender = decryptFrom
		if err != nil {
			entry.Outcome = "failed"
			entry.Detail = errClass(err)
			audit.Log(entry)
			spinner.FinalMSG = failureMessage("decrypt message", err)
			return nil
		}
		entry.Outcome = "ok"
		recordVerification(&entry, result.Verification)
		audit.Log(entry)

		spinner.Stop()
		if err := utils.WriteMessageOutput(decryptOutput, result.Output); err != nil {
			spinner.FinalMSG = failureMessage("write decrypted message", err)
			return nil
		}

		finalMsg := ""
		if decryptOutput != "" {
			finalMsg = color.GreenString("✓") + " Decrypted message written to " + ui.Path.Sprint(decryptOutput)
		}
		if v := renderVerification(result.Verification, decryptFrom); v != "" {
			if finalMsg != "" {
				finalMsg += "\n"
			}
			finalMsg += v
		}
		spinner.FinalMSG = finalMsg
		return nil
	},
}

func init() {
	decryptCmd.Flags().StringVar(&decryptFrom, "from", "", "expected sender; checks the embedded signature against this key")
	decryptCmd.Flags().StringVarP(&decryptOutput, "output", "o", "", "write the decrypted message to a file instead of stdout")
}

// recordVerification copies signature outcomes into a history entry.
// A valid signature from the wrong sender is recorded with the
// sender-mismatch class so the history distinguishes it from a clean
// verification.
func recordVerification(entry *audit.Entry, v *gnupg.Verification) {
	if v == nil {
		return
	}
	valid := v.Valid
	entry.Verified = &valid
	if v.SenderChecked {
		matched := v.SenderMatched
		entry.SenderMatched = &matched
	}
	if v.SenderMismatch() {
		entry.Detail = errClass(rerrors.ErrSenderMismatch)
	}
}

// renderVerification formats a signature verdict for display. Returns
// the empty string when there is nothing to report.
func renderVerification(v *gnupg.Verification, expected string) string {
	if v == nil {
		return ""
	}
	if !v.Valid {
		return color.YellowString("!") + " Message carries no valid signature"
	}
	if v.SenderMismatch() {
		return color.RedString("✗") + " Signature is valid but the signer does not match " +
			ui.Highlight.Sprint(expected) + "\n" +
			color.CyanString("→") + " Signed by " + ui.Highlight.Sprint(v.Signer)
	}
	if v.SenderChecked {
		return color.GreenString("✓") + " Signed by " + ui.Highlight.Sprint(v.Signer) +
			" " + ui.Muted.Sprintf("matched by %s", v.MatchedBy)
	}
	return color.GreenString("✓") + " Signed by " + ui.Highlight.Sprint(v.Signer)
}
