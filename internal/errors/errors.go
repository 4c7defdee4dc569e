package errors

import "errors"

// Tool errors indicate problems reaching or running the external gpg binary.
var (
	// ErrToolNotFound indicates the gpg binary is missing or unreachable.
	ErrToolNotFound = errors.New("gpg binary not found")

	// ErrInvocationFailed indicates the gpg process could not be spawned
	// or its pipes could not be serviced.
	ErrInvocationFailed = errors.New("failed to invoke gpg")

	// ErrNonZeroExit indicates gpg ran but reported failure.
	ErrNonZeroExit = errors.New("gpg exited with an error")

	// ErrEmptyOutput indicates gpg exited cleanly but produced no output.
	ErrEmptyOutput = errors.New("gpg produced no output")
)

// Message errors indicate problems with the message being processed.
var (
	// ErrFormatRejected indicates the input lacks the required armor
	// header or footer and was rejected before invoking gpg.
	ErrFormatRejected = errors.New("input is not an armored PGP message")

	// ErrSenderMismatch indicates a signature validated but the signer
	// failed every match strategy against the expected sender.
	ErrSenderMismatch = errors.New("signature is valid but not from the expected sender")
)

// Key errors indicate problems resolving or listing keys.
var (
	// ErrKeyNotFound indicates no key matched the given selector.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNoSecretKeys indicates the keyring holds no secret keys.
	ErrNoSecretKeys = errors.New("no secret keys in keyring")

	// ErrPassphraseRequired indicates the operation needs a passphrase
	// and none was supplied.
	ErrPassphraseRequired = errors.New("passphrase required")
)

// Configuration and history errors.
var (
	// ErrInvalidConfig indicates the user configuration is malformed.
	ErrInvalidConfig = errors.New("user configuration is invalid")

	// ErrInvalidDateFormat indicates a date filter is not in YYYY-MM-DD format.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrNoLogEntries indicates the operation history is empty or missing.
	ErrNoLogEntries = errors.New("no operation history found")
)
