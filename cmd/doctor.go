package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/workflows"
)

var (
	doctorJSON bool

	// doctorExitFunc is swapped in tests so the exit code can be
	// asserted without killing the test process.
	doctorExitFunc = os.Exit
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of the Rimu installation",
	Long: `Runs health checks: the gpg binary, the user config, both keyrings,
an export round-trip, and the history file.

Exit code is 0 when everything passes, 1 with warnings only, and 2
when any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting doctor command")

		// Registered before the spinner cleanup so the exit hook fires
		// after the final message has been printed.
		exitCode := 0
		defer func() {
			if exitCode != 0 {
				doctorExitFunc(exitCode)
			}
		}()

		spinner, cleanup := startSpinner("Running health checks...", verbose)
		defer cleanup()

		result, err := workflows.Doctor(cmd.Context(), workflows.DoctorOptions{Service: newService()})
		if err != nil {
			return Logger.ErrorfAndReturn("doctor failed: %v", err)
		}

		if doctorJSON {
			spinner.Stop()
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return Logger.ErrorfAndReturn("failed to encode doctor result: %v", err)
			}
		} else {
			spinner.FinalMSG = renderDoctorResult(result)
		}

		switch {
		case result.Summary.Errors > 0:
			exitCode = 2
		case result.Summary.Warnings > 0:
			exitCode = 1
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "emit machine-readable JSON")
}

func resetDoctorCommandState() {
	doctorJSON = false
	doctorExitFunc = os.Exit
}

// renderDoctorResult formats check results, one per line, with a
// summary footer.
func renderDoctorResult(result *workflows.DoctorResult) string {
	var b strings.Builder
	for _, check := range result.Checks {
		fmt.Fprintf(&b, "%s %-18s %s\n", statusMark(check.Status), check.Name, check.Message)
		if check.Suggestion != "" {
			fmt.Fprintf(&b, "  %s %s\n", color.CyanString("→"), check.Suggestion)
		}
	}
	fmt.Fprintf(&b, "%d passed, %d warnings, %d errors",
		result.Summary.Passed, result.Summary.Warnings, result.Summary.Errors)
	return b.String()
}

func statusMark(status workflows.CheckStatus) string {
	switch status {
	case workflows.CheckPass:
		return color.GreenString("✓")
	case workflows.CheckWarning:
		return color.YellowString("!")
	default:
		return color.RedString("✗")
	}
}
