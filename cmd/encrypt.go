package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/audit"
	"github.com/rimu-cli/rimu/internal/configs"
	"github.com/rimu-cli/rimu/internal/gnupg"
	"github.com/rimu-cli/rimu/internal/ui"
	"github.com/rimu-cli/rimu/internal/utils"
)

var (
	encryptTo     string
	encryptFrom   string
	encryptSign   bool
	encryptOutput string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [file]",
	Short: "Encrypt a message to a recipient's key",
	Long: `Encrypts the message from the file argument or stdin into an armored
PGP block. With --sign the message is also signed in the same gpg
invocation.

The recipient and signer may be given as a display label, fingerprint
or fragment, email, or name substring; unset flags fall back to
gpg.default_recipient and gpg.default_signer from the Rimu config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		spinner, cleanup := startSpinner("Encrypting message...", verbose)
		defer cleanup()

		payload, err := readPayload(args)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
			return nil
		}

		config, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load config: %v", err)
		}

		recipient := encryptTo
		if recipient == "" {
			recipient = config.Gpg.DefaultRecipient
		}
		if recipient == "" {
			spinner.FinalMSG = color.RedString("✗") + " No recipient given\n" +
				color.CyanString("→") + " Pass " + ui.Code.Sprint("--to <key>") + " or set " +
				ui.Code.Sprint("rimu config set gpg.default_recipient <fingerprint>")
			return nil
		}

		request := gnupg.Request{Payload: payload, Recipient: recipient}
		operation := "encrypt"

		if encryptSign {
			signer := encryptFrom
			if signer == "" {
				signer = config.Gpg.DefaultSigner
			}
			if signer == "" {
				spinner.FinalMSG = color.RedString("✗") + " --sign needs a signing key\n" +
					color.CyanString("→") + " Pass " + ui.Code.Sprint("--from <key>") + " or set " +
					ui.Code.Sprint("rimu config set gpg.default_signer <fingerprint>")
				return nil
			}
			request.Signer = signer
			operation = "encrypt+sign"
		}

		svc := newService()
		var result *gnupg.Result
		if encryptSign {
			result, err = svc.EncryptSign(cmd.Context(), request)
		} else {
			result, err = svc.Encrypt(cmd.Context(), request)
		}

		entry := audit.LogWithUser(operation)
		entry.Recipient = recipient
		entry.Signer = request.Signer
		if err != nil {
			entry.Outcome = "failed"
			entry.Detail = errClass(err)
			audit.Log(entry)
			spinner.FinalMSG = failureMessage("encrypt message", err)
			return nil
		}
		entry.Outcome = "ok"
		audit.Log(entry)

		spinner.Stop()
		if err := utils.WriteMessageOutput(encryptOutput, result.Output); err != nil {
			spinner.FinalMSG = failureMessage("write encrypted message", err)
			return nil
		}
		if encryptOutput != "" {
			spinner.FinalMSG = color.GreenString("✓") + " Encrypted message written to " + ui.Path.Sprint(encryptOutput)
		}
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringVar(&encryptTo, "to", "", "recipient key (label, fingerprint, email, or name)")
	encryptCmd.Flags().StringVar(&encryptFrom, "from", "", "signing key when --sign is set")
	encryptCmd.Flags().BoolVar(&encryptSign, "sign", false, "also sign the message")
	encryptCmd.Flags().StringVarP(&encryptOutput, "output", "o", "", "write the armored message to a file instead of stdout")
}
