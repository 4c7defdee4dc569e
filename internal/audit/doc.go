// Package audit keeps an append-only history of Rimu operations.
//
// Each completed operation writes one JSON Lines entry under the user
// data directory recording the operation kind, the key fingerprints
// involved, and the outcome. Payload bytes and passphrases are never
// recorded. History writes are best-effort: a failure to log never
// fails the operation itself.
package audit
