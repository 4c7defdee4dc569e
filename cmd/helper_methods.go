package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
	"github.com/rimu-cli/rimu/internal/ui"
	"github.com/rimu-cli/rimu/internal/utils"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
// This ensures consistent output formatting across all commands.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		Logger.Debugf("Starting spinner in non-verbose mode")
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			Logger.Debugf("Restoring log output")
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			Logger.Debugf("Stopping spinner")
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// readPayload reads the message body from the optional file argument,
// falling back to stdin.
func readPayload(args []string) ([]byte, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return utils.ReadMessageInput(path)
}

// failureMessage renders an operation error as a spinner FinalMSG,
// mapping the error taxonomy to actionable hints.
func failureMessage(action string, err error) string {
	cross := color.RedString("✗") + " "
	arrow := color.CyanString("→") + " "

	switch {
	case errors.Is(err, rerrors.ErrToolNotFound):
		return cross + "Failed to " + action + ": gpg is not installed or not on PATH\n" +
			arrow + "Install GnuPG, or point Rimu at it with " + ui.Code.Sprint("rimu config set gpg.binary <path>")
	case errors.Is(err, rerrors.ErrKeyNotFound):
		return cross + "Failed to " + action + ": " + err.Error() + "\n" +
			arrow + "Run " + ui.Code.Sprint("rimu keys list") + " to see the keys gpg holds"
	case errors.Is(err, rerrors.ErrNoSecretKeys):
		return cross + "Failed to " + action + ": no secret keys in the keyring\n" +
			arrow + "Generate one with " + ui.Code.Sprint("gpg --full-generate-key")
	case errors.Is(err, rerrors.ErrFormatRejected):
		return cross + "Failed to " + action + ": input is not an armored PGP message\n" +
			arrow + "Rimu only accepts " + ui.Code.Sprint("-----BEGIN PGP MESSAGE-----") + " blocks"
	case errors.Is(err, rerrors.ErrPassphraseRequired):
		return cross + "Failed to " + action + ": the key is locked and no passphrase was available\n" +
			arrow + "Run from a terminal so Rimu can prompt for the passphrase"
	case errors.Is(err, rerrors.ErrEmptyOutput):
		return cross + "Failed to " + action + ": gpg produced no output\n" +
			arrow + "Run with " + ui.Code.Sprint("--debug") + " to see the invocation"
	case errors.Is(err, rerrors.ErrNonZeroExit):
		return cross + "Failed to " + action + "\n" +
			color.RedString("Error: ") + err.Error()
	default:
		return cross + "Failed to " + action + "\n" +
			color.RedString("Error: ") + err.Error()
	}
}

// resetMessageCommandState resets the flag variables shared by the
// message commands for testing.
func resetMessageCommandState() {
	encryptTo = ""
	encryptFrom = ""
	encryptSign = false
	encryptOutput = ""
	signFrom = ""
	signOutput = ""
	decryptFrom = ""
	decryptOutput = ""
	verifyFrom = ""
	verifyOutput = ""
}

// errClass reduces an error to a short class name for history entries.
// Only the taxonomy class is recorded, never message text that could
// echo payload content.
func errClass(err error) string {
	classes := []struct {
		sentinel error
		name     string
	}{
		{rerrors.ErrToolNotFound, "tool-not-found"},
		{rerrors.ErrInvocationFailed, "invocation-failed"},
		{rerrors.ErrNonZeroExit, "non-zero-exit"},
		{rerrors.ErrEmptyOutput, "empty-output"},
		{rerrors.ErrFormatRejected, "format-rejected"},
		{rerrors.ErrSenderMismatch, "sender-mismatch"},
		{rerrors.ErrKeyNotFound, "key-not-found"},
		{rerrors.ErrNoSecretKeys, "no-secret-keys"},
		{rerrors.ErrPassphraseRequired, "passphrase-required"},
	}
	for _, c := range classes {
		if errors.Is(err, c.sentinel) {
			return c.name
		}
	}
	return "error"
}
