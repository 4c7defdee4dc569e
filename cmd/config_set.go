package cmd

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/configs"
	rerrors "github.com/rimu-cli/rimu/internal/errors"
	"github.com/rimu-cli/rimu/internal/ui"
)

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a Rimu setting",
	Long: `Sets a single setting by its dotted name and saves the config file.

Known keys:
  user.email             email recorded in history entries
  gpg.binary             path of the gpg executable (empty means PATH lookup)
  gpg.default_signer     key used for signing when --from is not given
  gpg.default_recipient  key used for encryption when --to is not given`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config set command")
		spinner, cleanup := startSpinner("Saving settings...", verbose)
		defer cleanup()

		config, err := configs.EnsureUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load config: %v", err)
		}

		if err := config.Set(args[0], args[1]); err != nil {
			if errors.Is(err, rerrors.ErrInvalidConfig) {
				spinner.FinalMSG = color.RedString("✗") + " " + err.Error() + "\n" +
					color.CyanString("→") + " Run " + ui.Code.Sprint("rimu config set --help") + " for the known keys"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to save config: %v", err)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Set " + ui.Code.Sprint(args[0]) +
			" in " + ui.Path.Sprint(configs.ConfigPath())
		return nil
	},
}
