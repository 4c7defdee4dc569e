// Package logger provides leveled logging for Rimu CLI commands.
//
// The logger supports multiple verbosity levels controlled by
// command-line flags:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows all messages including debug details
//
// Without flags, only critical warnings and errors are shown.
//
// Commands create a logger in their PersistentPreRun and pass it to
// internal functions:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Listing %s keys", kind)
//
// Passphrase material must never be passed to any log method.
package logger
