// Package cmd contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments
// and capturing command output.
package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rimu-cli/rimu/internal/configs"
)

// setupTestEnvironment points the user config and data dirs at a temp
// directory and resets command state afterwards.
func setupTestEnvironment(t *testing.T) {
	t.Helper()

	tmp := t.TempDir()
	originalUserSettings := configs.UserRimuSettings
	configs.UserRimuSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tmp, "config"),
		UserDataPath:    filepath.Join(tmp, "data"),
		Username:        "testuser",
	}

	t.Cleanup(func() {
		configs.UserRimuSettings = originalUserSettings
		ResetGlobalState()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stdoutReader)
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stderrReader)
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}
