package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd groups the settings subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit Rimu settings",
	Long: `Manages the Rimu config file. Settings cover the user identity, the
gpg binary override, and the default signing and recipient keys.`,
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
}
