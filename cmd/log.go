package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rimu-cli/rimu/internal/audit"
	rerrors "github.com/rimu-cli/rimu/internal/errors"
	"github.com/rimu-cli/rimu/internal/ui"
	"github.com/rimu-cli/rimu/internal/workflows"
)

var (
	logLimit   int
	logReverse bool
	logOps     opsFlag
	logSince   string
	logUntil   string
)

// knownOperations are the operation names history entries can carry.
var knownOperations = map[string]bool{
	"encrypt":        true,
	"sign":           true,
	"encrypt+sign":   true,
	"decrypt":        true,
	"decrypt+verify": true,
	"verify":         true,
	"keys-list":      true,
	"keys-export":    true,
}

// opsFlag is a pflag.Value that validates the comma-separated
// operation filter at parse time, so a typo fails before the history
// is read.
type opsFlag struct {
	value string
}

var _ pflag.Value = (*opsFlag)(nil)

func (f *opsFlag) String() string { return f.value }

func (f *opsFlag) Type() string { return "ops" }

func (f *opsFlag) Set(v string) error {
	for _, op := range strings.Split(v, ",") {
		op = strings.ToLower(strings.TrimSpace(op))
		if op == "" {
			continue
		}
		if !knownOperations[op] {
			names := make([]string, 0, len(knownOperations))
			for name := range knownOperations {
				names = append(names, name)
			}
			sort.Strings(names)
			return fmt.Errorf("unknown operation %q (one of %s)", op, strings.Join(names, ", "))
		}
	}
	f.value = v
	return nil
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the operation history",
	Long: `Shows past Rimu operations from the history file. Entries record
which keys an operation touched and how it ended; message content is
never stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")
		spinner, cleanup := startSpinner("Reading operation history...", verbose)
		defer cleanup()

		result, err := workflows.Log(cmd.Context(), workflows.LogOptions{
			Limit:      logLimit,
			Reverse:    logReverse,
			Operations: logOps.value,
			Since:      logSince,
			Until:      logUntil,
		})
		if errors.Is(err, rerrors.ErrNoLogEntries) {
			spinner.FinalMSG = color.YellowString("!") + " No operations recorded yet\n" +
				color.CyanString("→") + " History appears after the first " + ui.Code.Sprint("rimu encrypt") + " or similar"
			return nil
		}
		if errors.Is(err, rerrors.ErrInvalidDateFormat) {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error() + "\n" +
				color.CyanString("→") + " Dates use the form " + ui.Code.Sprint("YYYY-MM-DD")
			return nil
		}
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read history: %v", err)
		}

		spinner.FinalMSG = renderLogEntries(result)
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "maximum number of entries to show")
	logCmd.Flags().BoolVarP(&logReverse, "reverse", "r", false, "show most recent entries first")
	logCmd.Flags().Var(&logOps, "op", "filter by operation kinds (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "only entries on or after this date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "only entries up to this date (YYYY-MM-DD)")
}

func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOps = opsFlag{}
	logSince = ""
	logUntil = ""
}

// renderLogEntries formats history entries, one per line.
func renderLogEntries(result *workflows.LogResult) string {
	var b strings.Builder
	for _, entry := range result.Entries {
		fmt.Fprintf(&b, "%s  %-14s %s", ui.Muted.Sprint(entry.Timestamp), entry.Operation, outcomeMark(entry))
		if entry.Recipient != "" {
			b.WriteString(" to " + ui.Fingerprint.Sprint(entry.Recipient))
		}
		if entry.Signer != "" {
			b.WriteString(" by " + ui.Fingerprint.Sprint(entry.Signer))
		}
		if entry.KeyCount > 0 {
			fmt.Fprintf(&b, " %d keys", entry.KeyCount)
		}
		if entry.Detail != "" {
			b.WriteString(" " + ui.Muted.Sprint(entry.Detail))
		}
		b.WriteString("\n")
	}
	if len(result.Entries) < result.TotalEntriesBeforeFilter {
		fmt.Fprintf(&b, "%s\n", ui.Muted.Sprintf("%d of %d entries shown", len(result.Entries), result.TotalEntriesBeforeFilter))
	}
	return b.String()
}

func outcomeMark(entry audit.Entry) string {
	if entry.Outcome == "ok" {
		return color.GreenString("✓")
	}
	return color.RedString("✗")
}
