package cmd

import (
	"github.com/spf13/cobra"
)

// KeysCmd groups the keyring subcommands.
var KeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List and export keys from the gpg keyring",
	Long:  `Reads the gpg keyring through the gpg binary. Rimu never opens keyring files itself.`,
}

func init() {
	KeysCmd.AddCommand(keysListCmd)
	KeysCmd.AddCommand(keysExportCmd)
}

func resetKeysCommandState() {
	listSecret = false
	exportOutput = ""
}
