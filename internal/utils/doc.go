// Package utils provides terminal, I/O, and system helpers shared by
// Rimu commands.
package utils
