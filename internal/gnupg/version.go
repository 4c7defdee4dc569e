package gnupg

import (
	"context"
	"fmt"
	"strings"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
)

// ToolInfo describes the detected gpg installation.
type ToolInfo struct {
	Path    string
	Version string
}

// Detect resolves the configured gpg binary and parses its reported
// version. A missing binary yields ErrToolNotFound; the CLI surfaces
// that once at startup as a warning and still attempts operations, so
// a PATH fixed mid-session works without restarting.
func (s *Service) Detect(ctx context.Context) (ToolInfo, error) {
	path, err := s.runner.LookPath(s.bin)
	if err != nil {
		return ToolInfo{}, fmt.Errorf("%w: %s", rerrors.ErrToolNotFound, s.bin)
	}

	out, _, err := s.invoke(ctx, nil, "--version")
	if err != nil {
		return ToolInfo{Path: path}, err
	}

	return ToolInfo{Path: path, Version: parseVersion(out)}, nil
}

// parseVersion extracts the version token from the first line of
// gpg --version output, e.g. "gpg (GnuPG) 2.4.4" -> "2.4.4".
func parseVersion(out []byte) string {
	lines := strings.SplitN(string(out), "\n", 2)
	fields := strings.Fields(lines[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
