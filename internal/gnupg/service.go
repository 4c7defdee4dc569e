package gnupg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
	logger "github.com/rimu-cli/rimu/internal/logging"
)

// DefaultBinary is the gpg executable used when no override is configured.
const DefaultBinary = "gpg"

// Options configures a Service.
type Options struct {
	// Binary is the gpg executable. Empty means DefaultBinary.
	Binary string

	// Runner executes the external tool. Nil means ExecRunner.
	Runner Runner

	// Logger receives operation tracing. Argument lists are logged at
	// debug level; passphrase material never reaches the logger.
	Logger logger.Logger
}

// Service is the key and message operation layer over gpg. Construct
// it with NewService and pass it to callers explicitly; there is no
// package-level instance.
type Service struct {
	bin    string
	runner Runner
	log    logger.Logger
}

// NewService builds a Service from opts.
func NewService(opts Options) *Service {
	bin := opts.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Service{bin: bin, runner: runner, log: opts.Logger}
}

// Binary returns the configured gpg executable name.
func (s *Service) Binary() string {
	return s.bin
}

// invoke runs one gpg invocation and classifies failures. The second
// return value is the stderr stream, which doubles as the status
// channel for invocations carrying --status-fd=2.
func (s *Service) invoke(ctx context.Context, stdin []byte, args ...string) (stdout, status []byte, err error) {
	s.log.Debugf("Running %s %s", s.bin, strings.Join(args, " "))

	stdout, status, err = s.runner.Run(ctx, s.bin, stdin, args...)
	if err != nil {
		return nil, nil, classifyRunError(err, status)
	}
	return stdout, status, nil
}

// classifyRunError maps raw runner errors onto the sentinel taxonomy.
func classifyRunError(err error, stderr []byte) error {
	// Fake runners may return already-classified sentinels.
	for _, sentinel := range []error{
		rerrors.ErrToolNotFound,
		rerrors.ErrInvocationFailed,
		rerrors.ErrNonZeroExit,
		rerrors.ErrEmptyOutput,
		rerrors.ErrPassphraseRequired,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// A locked key without a usable pinentry surfaces on the status
		// channel; report it as its own class so callers can prompt.
		if bytes.Contains(stderr, []byte("MISSING_PASSPHRASE")) ||
			bytes.Contains(stderr, []byte("No passphrase given")) {
			return fmt.Errorf("%w (exit %d)", rerrors.ErrPassphraseRequired, exitErr.ExitCode())
		}
		if detail := firstLine(stderr); detail != "" {
			return fmt.Errorf("%w (exit %d): %s", rerrors.ErrNonZeroExit, exitErr.ExitCode(), detail)
		}
		return fmt.Errorf("%w (exit %d)", rerrors.ErrNonZeroExit, exitErr.ExitCode())
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", rerrors.ErrToolNotFound, execErr.Name)
	}

	return fmt.Errorf("%w: %v", rerrors.ErrInvocationFailed, err)
}

// firstLine returns the first non-empty line of b, trimmed.
func firstLine(b []byte) string {
	for _, line := range bytes.Split(b, []byte("\n")) {
		if trimmed := strings.TrimSpace(string(line)); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
