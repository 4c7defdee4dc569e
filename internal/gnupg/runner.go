package gnupg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner spawns the external tool. The production implementation wraps
// os/exec; tests substitute a fake that records argument lists and
// plays back canned output.
type Runner interface {
	// Run executes bin with args, writes stdin to the child's input
	// stream and closes it, then waits for exit while draining stdout
	// and stderr fully. The returned error is the raw wait/spawn error;
	// classification into sentinel errors happens in the Service.
	Run(ctx context.Context, bin string, stdin []byte, args ...string) (stdout, stderr []byte, err error)

	// LookPath resolves bin against the environment.
	LookPath(bin string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// LookPath resolves bin on PATH.
func (ExecRunner) LookPath(bin string) (string, error) {
	return exec.LookPath(bin)
}

// Run executes the command. Stdout and stderr are captured through
// writers, so os/exec drains both pipes concurrently while the child
// runs; a child that fills one OS pipe buffer cannot deadlock the
// invocation.
func (ExecRunner) Run(ctx context.Context, bin string, stdin []byte, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("opening stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	// Write the full message body, then close stdin to signal
	// end-of-input. A write error still requires a Wait to reap the
	// child before reporting.
	_, writeErr := in.Write(stdin)
	closeErr := in.Close()

	waitErr := cmd.Wait()

	if writeErr != nil {
		return outBuf.Bytes(), errBuf.Bytes(), fmt.Errorf("writing to stdin: %w", writeErr)
	}
	if closeErr != nil {
		return outBuf.Bytes(), errBuf.Bytes(), fmt.Errorf("closing stdin: %w", closeErr)
	}
	return outBuf.Bytes(), errBuf.Bytes(), waitErr
}
