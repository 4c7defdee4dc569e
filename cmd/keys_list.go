package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/audit"
	"github.com/rimu-cli/rimu/internal/gnupg"
	"github.com/rimu-cli/rimu/internal/ui"
)

var listSecret bool

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the keys gpg holds",
	Long: `Lists public keys by default, or secret keys with --secret.
Each line shows the identity in the label form Rimu accepts back as a
key selector: Name <email> [FINGERPRINT].`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys list command")
		spinner, cleanup := startSpinner("Reading keyring...", verbose)
		defer cleanup()

		kind := gnupg.PublicKeys
		if listSecret {
			kind = gnupg.SecretKeys
		}

		svc := newService()
		identities, err := svc.ListIdentities(cmd.Context(), kind)

		entry := audit.LogWithUser("keys-list")
		if err != nil {
			entry.Outcome = "failed"
			entry.Detail = errClass(err)
			audit.Log(entry)
			spinner.FinalMSG = failureMessage("list keys", err)
			return nil
		}
		entry.Outcome = "ok"
		entry.KeyCount = len(identities)
		audit.Log(entry)

		spinner.FinalMSG = renderIdentities(identities, kind)
		return nil
	},
}

func init() {
	keysListCmd.Flags().BoolVar(&listSecret, "secret", false, "list secret keys instead of public keys")
}

// renderIdentities formats a keyring listing for display.
func renderIdentities(identities []gnupg.Identity, kind gnupg.Kind) string {
	if len(identities) == 0 {
		hint := "gpg --import"
		if kind == gnupg.SecretKeys {
			hint = "gpg --full-generate-key"
		}
		return color.YellowString("!") + fmt.Sprintf(" No %s keys found\n", kind) +
			color.CyanString("→") + " Add one with " + ui.Code.Sprint(hint)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d %s key(s)\n", color.GreenString("✓"), len(identities), kind)
	for _, id := range identities {
		b.WriteString("  ")
		if id.Name != "" {
			b.WriteString(id.Name)
			b.WriteString(" ")
		}
		if id.Email != "" {
			b.WriteString(ui.Highlight.Sprintf("<%s>", id.Email))
			b.WriteString(" ")
		}
		b.WriteString(ui.Fingerprint.Sprint(id.Fingerprint))
		b.WriteString("\n")
	}
	return b.String()
}
