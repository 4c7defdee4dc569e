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
	signFrom   string
	signOutput string
)

var signCmd = &cobra.Command{
	Use:   "sign [file]",
	Short: "Sign a message with your key",
	Long: `Signs the message from the file argument or stdin, producing an
armored signed block. The signing key falls back to gpg.default_signer
from the Rimu config when --from is not given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting sign command")
		spinner, cleanup := startSpinner("Signing message...", verbose)
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

		signer := signFrom
		if signer == "" {
			signer = config.Gpg.DefaultSigner
		}
		if signer == "" {
			spinner.FinalMSG = color.RedString("✗") + " No signing key given\n" +
				color.CyanString("→") + " Pass " + ui.Code.Sprint("--from <key>") + " or set " +
				ui.Code.Sprint("rimu config set gpg.default_signer <fingerprint>")
			return nil
		}

		svc := newService()
		result, err := svc.Sign(cmd.Context(), gnupg.Request{Payload: payload, Signer: signer})

		entry := audit.LogWithUser("sign")
		entry.Signer = signer
		if err != nil {
			entry.Outcome = "failed"
			entry.Detail = errClass(err)
			audit.Log(entry)
			spinner.FinalMSG = failureMessage("sign message", err)
			return nil
		}
		entry.Outcome = "ok"
		audit.Log(entry)

		spinner.Stop()
		if err := utils.WriteMessageOutput(signOutput, result.Output); err != nil {
			spinner.FinalMSG = failureMessage("write signed message", err)
			return nil
		}
		if signOutput != "" {
			spinner.FinalMSG = color.GreenString("✓") + " Signed message written to " + ui.Path.Sprint(signOutput)
		}
		return nil
	},
}

func init() {
	signCmd.Flags().StringVar(&signFrom, "from", "", "signing key (label, fingerprint, email, or name)")
	signCmd.Flags().StringVarP(&signOutput, "output", "o", "", "write the armored message to a file instead of stdout")
}
