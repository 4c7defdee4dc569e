package gnupg

import (
	"context"
	"fmt"
	"slices"
)

// fakeRunner records every invocation and plays back canned responses,
// standing in for the gpg binary in tests.
type fakeRunner struct {
	calls []fakeCall

	// handler produces the response for each call. Nil means empty
	// success.
	handler func(stdin []byte, args []string) (stdout, stderr []byte, err error)

	lookPathErr error
}

type fakeCall struct {
	stdin []byte
	args  []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, stdin []byte, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, fakeCall{stdin: append([]byte(nil), stdin...), args: args})
	if f.handler == nil {
		return nil, nil, nil
	}
	return f.handler(stdin, args)
}

func (f *fakeRunner) LookPath(bin string) (string, error) {
	if f.lookPathErr != nil {
		return "", f.lookPathErr
	}
	return "/usr/bin/" + bin, nil
}

// argIndex returns the position of arg in the last call, or -1.
func (f *fakeRunner) argIndex(arg string) int {
	if len(f.calls) == 0 {
		return -1
	}
	return slices.Index(f.calls[len(f.calls)-1].args, arg)
}

// argValue returns the value following flag in the last call.
func (f *fakeRunner) argValue(flag string) (string, error) {
	i := f.argIndex(flag)
	if i < 0 {
		return "", fmt.Errorf("flag %s not present", flag)
	}
	last := f.calls[len(f.calls)-1]
	if i+1 >= len(last.args) {
		return "", fmt.Errorf("flag %s has no value", flag)
	}
	return last.args[i+1], nil
}

func newTestService(r Runner) *Service {
	return NewService(Options{Runner: r})
}
