package gnupg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
)

// Zero overwrites b in place. Callers zero passphrase buffers as soon
// as the consuming invocation returns.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// writePassphraseFile writes the passphrase to an exclusively-owned
// temporary file for gpg's --passphrase-file option. The file name is
// unique per invocation, so concurrent calls cannot collide. The
// returned cleanup removes the file and must run on every exit path
// before the operation returns.
func writePassphraseFile(passphrase []byte) (string, func(), error) {
	path := filepath.Join(os.TempDir(), "rimu-"+uuid.New().String())

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", nil, fmt.Errorf("%w: creating passphrase file: %v", rerrors.ErrInvocationFailed, err)
	}

	cleanup := func() {
		os.Remove(path)
	}

	_, writeErr := f.Write(passphrase)
	closeErr := f.Close()
	if writeErr != nil || closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: writing passphrase file", rerrors.ErrInvocationFailed)
	}

	return path, cleanup, nil
}
