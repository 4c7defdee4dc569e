package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/rimu-cli/rimu/internal/configs"
	rerrors "github.com/rimu-cli/rimu/internal/errors"
	"github.com/rimu-cli/rimu/internal/gnupg"
	logger "github.com/rimu-cli/rimu/internal/logging"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// serviceRunner is swapped for a fake in tests. Nil means the real
	// subprocess runner.
	serviceRunner gnupg.Runner

	toolWarned bool
)

var rootCmd = &cobra.Command{
	Use:   "rimu",
	Short: "Rimu - a friendly command-line front-end for GnuPG.",
	Long: `Rimu wraps the gpg binary behind a small set of commands for
encrypting, signing, decrypting, and verifying armored messages.

Rimu never touches key material itself: every operation is one gpg
invocation, with the message streamed through stdin and the result
read back from stdout.

Usage:
  rimu <command> [flags]

Available Commands:
  keys       List and export keys from the gpg keyring
  encrypt    Encrypt a message to a recipient
  sign       Sign a message with your key
  decrypt    Decrypt an armored message
  verify     Check the signature on a signed message
  log        Show the operation history
  doctor     Check the health of the Rimu installation
  config     Show and edit Rimu settings

Run 'rimu help <command>' for more details on a specific command.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Initializing rimu with verbose=%t, debug=%t", verbose, debug)
		warnIfToolMissing(cmd.Context())
	},
	Run: func(cmd *cobra.Command, args []string) {
		myFigure := figure.NewColorFigure("Rimu", "alligator2", "green", true)
		myFigure.Print()
		fmt.Println("Welcome to Rimu! Run 'rimu --help' to see available commands.")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	rootCmd.AddCommand(KeysCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(ConfigCmd)
}

// newService builds the gpg layer for a command run, honoring the
// configured binary override.
func newService() *gnupg.Service {
	binary := ""
	if config, err := configs.LoadUserConfig(); err == nil {
		binary = config.Gpg.Binary
	}
	return gnupg.NewService(gnupg.Options{
		Binary: binary,
		Runner: serviceRunner,
		Logger: Logger,
	})
}

// warnIfToolMissing surfaces a missing gpg binary once per process,
// before any command output. Commands still run; their own error paths
// report the failure in context.
func warnIfToolMissing(ctx context.Context) {
	if toolWarned {
		return
	}
	toolWarned = true

	if ctx == nil {
		ctx = context.Background()
	}
	svc := newService()
	if _, err := svc.Detect(ctx); errors.Is(err, rerrors.ErrToolNotFound) {
		Logger.WarnfAlways("%s is not available on PATH; install GnuPG or set gpg.binary with 'rimu config set'", svc.Binary())
	}
}

// Helper functions for testing

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	serviceRunner = nil
	toolWarned = false
	resetMessageCommandState()
	resetKeysCommandState()
	resetLogCommandState()
	resetDoctorCommandState()
}

// SetRunner replaces the subprocess runner for testing.
func SetRunner(r gnupg.Runner) {
	serviceRunner = r
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
