// Package gnupg drives the external gpg binary.
//
// Rimu performs no cryptography of its own: gpg is treated as an
// opaque, trusted oracle reachable only through its command line and
// stream interface. This package builds argument lists, streams
// message bytes through the child process, and parses two of gpg's
// machine-readable surfaces:
//
//   - colon-delimited key listings (--with-colons) into Identity values
//   - status-channel records (--status-fd) into Verification results
//
// All entry points live on Service, which is constructed explicitly
// and carries its own Runner, so tests can substitute a fake
// subprocess without touching package state.
package gnupg
