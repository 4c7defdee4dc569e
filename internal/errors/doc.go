// Package errors defines sentinel errors shared across Rimu.
//
// Errors are grouped by concern: tool errors for the external gpg
// process, message errors for armor and signature handling, key errors
// for keyring lookups, and configuration errors. Callers wrap these
// with fmt.Errorf("...: %w", err) to add context and test with
// errors.Is.
package errors
