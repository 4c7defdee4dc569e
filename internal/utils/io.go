package utils

import (
	"fmt"
	"io"
	"os"
)

// ReadMessageInput reads the message body for an operation.
// When path is non-empty the file is read; otherwise stdin is used.
// Returns an error if stdin is a terminal (no piped data) or empty.
func ReadMessageInput(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	}

	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// If ModeCharDevice is set, stdin is connected to a terminal.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe the message or pass a file argument)")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	return data, nil
}

// WriteMessageOutput writes operation output to path, or stdout when
// path is empty.
func WriteMessageOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil { // #nosec G306 -- armored output is not secret
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
