// Package ui provides semantic text formatting for CLI output.
//
// Formatters degrade gracefully when color is unavailable: each carries
// a plain-text decoration used when NO_COLOR is set or the terminal
// does not support color, so output stays readable in both modes.
package ui
