package cmd

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/rimu-cli/rimu/internal/audit"
	rerrors "github.com/rimu-cli/rimu/internal/errors"
	"github.com/rimu-cli/rimu/internal/gnupg"
)

// plainColors forces deterministic uncolored output for string assertions.
func plainColors(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func TestFailureMessageHints(t *testing.T) {
	plainColors(t)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing tool suggests config", rerrors.ErrToolNotFound, "rimu config set gpg.binary"},
		{"unknown key suggests listing", fmt.Errorf("%w: recipient bob", rerrors.ErrKeyNotFound), "rimu keys list"},
		{"rejected format names the armor header", rerrors.ErrFormatRejected, "BEGIN PGP MESSAGE"},
		{"empty output suggests debug", rerrors.ErrEmptyOutput, "--debug"},
		{"exit failure carries the error text", fmt.Errorf("%w: gpg exited 2", rerrors.ErrNonZeroExit), "gpg exited 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := failureMessage("decrypt message", tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("failureMessage = %q, want it to contain %q", got, tt.want)
			}
			if !strings.HasPrefix(got, "✗") {
				t.Errorf("failureMessage should open with the failure mark, got %q", got)
			}
		})
	}
}

func TestErrClass(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{rerrors.ErrToolNotFound, "tool-not-found"},
		{fmt.Errorf("wrapped: %w", rerrors.ErrNonZeroExit), "non-zero-exit"},
		{rerrors.ErrFormatRejected, "format-rejected"},
		{fmt.Errorf("plain failure"), "error"},
	}
	for _, tt := range tests {
		if got := errClass(tt.err); got != tt.want {
			t.Errorf("errClass(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordVerification(t *testing.T) {
	var entry audit.Entry
	recordVerification(&entry, &gnupg.Verification{Valid: true, SenderChecked: true})
	if entry.Verified == nil || !*entry.Verified {
		t.Error("expected Verified=true for a valid signature")
	}
	if entry.SenderMatched == nil || *entry.SenderMatched {
		t.Error("expected SenderMatched=false when every strategy failed")
	}
	if entry.Detail != "sender-mismatch" {
		t.Errorf("Detail = %q, want sender-mismatch", entry.Detail)
	}

	entry = audit.Entry{}
	recordVerification(&entry, &gnupg.Verification{Valid: true, SenderChecked: true, SenderMatched: true})
	if entry.Detail != "" {
		t.Errorf("clean verification should carry no detail, got %q", entry.Detail)
	}

	entry = audit.Entry{}
	recordVerification(&entry, nil)
	if entry.Verified != nil || entry.SenderMatched != nil {
		t.Errorf("nil verification should record nothing, got %+v", entry)
	}
}

func TestRenderVerification(t *testing.T) {
	plainColors(t)

	if got := renderVerification(nil, ""); got != "" {
		t.Errorf("nil verification should render nothing, got %q", got)
	}

	invalid := &gnupg.Verification{}
	if got := renderVerification(invalid, ""); !strings.Contains(got, "no valid signature") {
		t.Errorf("invalid signature rendering = %q", got)
	}

	mismatch := &gnupg.Verification{
		Valid:         true,
		Signer:        "Mallory <mallory@example.com>",
		SenderChecked: true,
	}
	got := renderVerification(mismatch, "alice@example.com")
	if !strings.Contains(got, "does not match") || !strings.Contains(got, "Mallory") {
		t.Errorf("mismatch rendering = %q", got)
	}

	matched := &gnupg.Verification{
		Valid:         true,
		Signer:        "Alice <alice@example.com>",
		SenderChecked: true,
		SenderMatched: true,
		MatchedBy:     "embedded-email",
	}
	got = renderVerification(matched, "alice@example.com")
	if !strings.Contains(got, "Signed by") || !strings.Contains(got, "embedded-email") {
		t.Errorf("matched rendering = %q", got)
	}
}
