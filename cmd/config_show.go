package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/configs"
	"github.com/rimu-cli/rimu/internal/ui"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current Rimu settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		spinner, cleanup := startSpinner("Loading settings...", verbose)
		defer cleanup()

		config, err := configs.EnsureUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load config: %v", err)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Config file: %s\n", ui.Path.Sprint(configs.ConfigPath()))
		fmt.Fprintf(&b, "  user.email             %s\n", valueOrUnset(config.User.Email))
		fmt.Fprintf(&b, "  gpg.binary             %s\n", valueOrUnset(config.Gpg.Binary))
		fmt.Fprintf(&b, "  gpg.default_signer     %s\n", valueOrUnset(config.Gpg.DefaultSigner))
		fmt.Fprintf(&b, "  gpg.default_recipient  %s", valueOrUnset(config.Gpg.DefaultRecipient))
		spinner.FinalMSG = b.String()
		return nil
	},
}

func valueOrUnset(v string) string {
	if v == "" {
		return ui.Muted.Sprint("unset")
	}
	return ui.Highlight.Sprint(v)
}
