package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/audit"
	"github.com/rimu-cli/rimu/internal/gnupg"
	"github.com/rimu-cli/rimu/internal/ui"
	"github.com/rimu-cli/rimu/internal/utils"
)

var exportOutput string

var keysExportCmd = &cobra.Command{
	Use:   "export <key>",
	Short: "Export a public key as an armored block",
	Long: `Exports the named public key in ASCII armor. The key may be given
as a display label, a fingerprint or fragment, an email, or a name
substring.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys export command")
		spinner, cleanup := startSpinner("Exporting key...", verbose)
		defer cleanup()

		svc := newService()
		entry := audit.LogWithUser("keys-export")

		fingerprint, err := svc.ResolveKey(cmd.Context(), args[0], gnupg.PublicKeys)
		if err != nil {
			entry.Outcome = "failed"
			entry.Detail = errClass(err)
			audit.Log(entry)
			spinner.FinalMSG = failureMessage("export key", err)
			return nil
		}

		armored, err := svc.ExportPublicKey(cmd.Context(), fingerprint)
		if err != nil {
			entry.Outcome = "failed"
			entry.Detail = errClass(err)
			entry.Recipient = fingerprint
			audit.Log(entry)
			spinner.FinalMSG = failureMessage("export key", err)
			return nil
		}

		// Validate the armor before handing it to the user.
		if _, err := gnupg.ParseArmored(armored); err != nil {
			entry.Outcome = "failed"
			entry.Detail = errClass(err)
			entry.Recipient = fingerprint
			audit.Log(entry)
			spinner.FinalMSG = failureMessage("export key", err)
			return nil
		}

		entry.Outcome = "ok"
		entry.Recipient = fingerprint
		audit.Log(entry)

		spinner.Stop()
		if err := utils.WriteMessageOutput(exportOutput, armored); err != nil {
			spinner.FinalMSG = failureMessage("write exported key", err)
			return nil
		}
		if exportOutput != "" {
			spinner.FinalMSG = color.GreenString("✓") + " Exported " +
				ui.Fingerprint.Sprint(fingerprint) + " to " + ui.Path.Sprint(exportOutput)
		}
		return nil
	},
}

func init() {
	keysExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write the armored key to a file instead of stdout")
}
