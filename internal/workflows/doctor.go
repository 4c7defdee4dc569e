package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ProtonMail/go-crypto/openpgp"

	"github.com/rimu-cli/rimu/internal/audit"
	"github.com/rimu-cli/rimu/internal/configs"
	rerrors "github.com/rimu-cli/rimu/internal/errors"
	"github.com/rimu-cli/rimu/internal/gnupg"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks  []CheckResult `json:"checks"`
	Summary DoctorSummary `json:"summary"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	// Service is the gpg layer under test.
	Service *gnupg.Service
}

// Doctor runs health checks on the Rimu installation.
//
// The doctor workflow checks:
//   - gpg binary presence and version
//   - user configuration validity
//   - secret and public keyring contents
//   - armored key export integrity
//   - operation history writability
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	svc := opts.Service
	if svc == nil {
		return nil, fmt.Errorf("doctor requires a gnupg service")
	}

	checks := []func() CheckResult{
		func() CheckResult { return checkToolAvailable(ctx, svc) },
		checkUserConfig,
		func() CheckResult { return checkKeyring(ctx, svc, gnupg.SecretKeys) },
		func() CheckResult { return checkKeyring(ctx, svc, gnupg.PublicKeys) },
		func() CheckResult { return checkKeyExport(ctx, svc) },
		checkHistoryWritable,
	}

	result := &DoctorResult{}
	for _, check := range checks {
		res := check()
		result.Checks = append(result.Checks, res)
		switch res.Status {
		case CheckPass:
			result.Summary.Passed++
		case CheckWarning:
			result.Summary.Warnings++
		case CheckError:
			result.Summary.Errors++
		}
	}

	return result, nil
}

func checkToolAvailable(ctx context.Context, svc *gnupg.Service) CheckResult {
	info, err := svc.Detect(ctx)
	if errors.Is(err, rerrors.ErrToolNotFound) {
		return CheckResult{
			Name:       "gpg binary",
			Status:     CheckError,
			Message:    fmt.Sprintf("%s not found on PATH", svc.Binary()),
			Suggestion: "install GnuPG or set gpg.binary in the Rimu config",
		}
	}
	if err != nil {
		return CheckResult{
			Name:    "gpg binary",
			Status:  CheckError,
			Message: fmt.Sprintf("gpg did not report a version: %v", err),
		}
	}
	return CheckResult{
		Name:    "gpg binary",
		Status:  CheckPass,
		Message: fmt.Sprintf("gpg %s at %s", info.Version, info.Path),
	}
}

func checkUserConfig() CheckResult {
	if _, err := configs.LoadUserConfig(); err != nil {
		return CheckResult{
			Name:       "user config",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "fix or remove " + configs.ConfigPath(),
		}
	}
	return CheckResult{
		Name:    "user config",
		Status:  CheckPass,
		Message: configs.ConfigPath(),
	}
}

func checkKeyring(ctx context.Context, svc *gnupg.Service, kind gnupg.Kind) CheckResult {
	name := fmt.Sprintf("%s keys", kind)
	ids, err := svc.ListIdentities(ctx, kind)
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: err.Error()}
	}
	if len(ids) == 0 {
		suggestion := "import a public key with gpg --import"
		if kind == gnupg.SecretKeys {
			suggestion = "generate a key pair with gpg --full-generate-key"
		}
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    "keyring is empty",
			Suggestion: suggestion,
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("%d keys", len(ids)),
	}
}

// checkKeyExport cross-checks gpg's listing against an actual export:
// the first public key is exported, parsed, and its fingerprint
// compared against the listed one.
func checkKeyExport(ctx context.Context, svc *gnupg.Service) CheckResult {
	const name = "key export"

	ids, err := svc.ListIdentities(ctx, gnupg.PublicKeys)
	if err != nil || len(ids) == 0 {
		return CheckResult{Name: name, Status: CheckWarning, Message: "no public key to export"}
	}

	armored, err := svc.ExportPublicKey(ctx, ids[0].Fingerprint)
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: err.Error()}
	}

	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(armored))
	if err != nil {
		return CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("exported key does not parse: %v", err),
		}
	}
	if len(entities) == 0 || entities[0].PrimaryKey == nil {
		return CheckResult{Name: name, Status: CheckError, Message: "exported key holds no primary key"}
	}

	got := fmt.Sprintf("%X", entities[0].PrimaryKey.Fingerprint)
	if got != ids[0].Fingerprint {
		return CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("listed fingerprint %s but export carries %s", ids[0].Fingerprint, got),
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("export of %s parses and matches", ids[0].Fingerprint),
	}
}

func checkHistoryWritable() CheckResult {
	logPath := audit.LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return CheckResult{Name: "operation history", Status: CheckWarning, Message: err.Error()}
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return CheckResult{Name: "operation history", Status: CheckWarning, Message: err.Error()}
	}
	f.Close()
	return CheckResult{Name: "operation history", Status: CheckPass, Message: logPath}
}
