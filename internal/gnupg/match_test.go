package gnupg

import "testing"

func TestMatchSenderStrategies(t *testing.T) {
	fullFpr := "ABCD1234ABCD1234ABCD1234CDEF123456781234"

	tests := []struct {
		name       string
		expected   string
		signer     string
		wantMatch  bool
		wantedBy   string
	}{
		{
			name:      "full fingerprint substring",
			expected:  fullFpr,
			signer:    fullFpr + " Alice Example <alice@example.com>",
			wantMatch: true,
			wantedBy:  "full-fingerprint",
		},
		{
			name:      "trailing 16 hex characters",
			expected:  fullFpr, // last 16: CDEF123456781234
			signer:    "CDEF123456781234 Alice Example <alice@example.com>",
			wantMatch: true,
			wantedBy:  "last-16-hex",
		},
		{
			name:      "trailing 8 hex characters",
			expected:  fullFpr, // last 8: 56781234
			signer:    "56781234 Alice Example <alice@example.com>",
			wantMatch: true,
			wantedBy:  "last-8-hex",
		},
		{
			name:      "reverse partial: signer token inside expected",
			expected:  fullFpr,
			signer:    "1234CDEF12345678 Alice Example",
			wantMatch: true,
			wantedBy:  "reverse-partial",
		},
		{
			name:      "embedded email equality",
			expected:  "Alice Example <alice@example.com> [FFFFFFFFFFFFFFFF]",
			signer:    "0000000000000000 Alice Example <ALICE@example.com>",
			wantMatch: true,
			wantedBy:  "embedded-email",
		},
		{
			name:      "label fingerprint drives hex strategies",
			expected:  "Alice Example <alice@example.com> [" + fullFpr + "]",
			signer:    "CDEF123456781234 Somebody Else <other@example.net>",
			wantMatch: true,
			wantedBy:  "last-16-hex",
		},
		{
			name:      "no strategy matches",
			expected:  fullFpr,
			signer:    "0000111122223333 Mallory <mallory@evil.example>",
			wantMatch: false,
		},
		{
			name:      "empty signer",
			expected:  fullFpr,
			signer:    "",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, by := MatchSender(tt.expected, tt.signer)
			if got != tt.wantMatch {
				t.Fatalf("MatchSender(%q, %q) = %v, want %v", tt.expected, tt.signer, got, tt.wantMatch)
			}
			if got && by != tt.wantedBy {
				t.Errorf("matched by %q, want %q", by, tt.wantedBy)
			}
		})
	}
}

func TestMatchSenderStrategyOrderIsFixed(t *testing.T) {
	want := []string{"full-fingerprint", "last-16-hex", "last-8-hex", "reverse-partial", "embedded-email"}
	if len(SenderMatchStrategies) != len(want) {
		t.Fatalf("expected %d strategies, got %d", len(want), len(SenderMatchStrategies))
	}
	for i, st := range SenderMatchStrategies {
		if st.Name != want[i] {
			t.Errorf("strategy %d = %q, want %q", i, st.Name, want[i])
		}
	}
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Example <alice@example.com>", "alice@example.com"},
		{"CDEF123456781234 alice@example.com", "alice@example.com"},
		{"no email here", ""},
		{"broken <@example.com>", "@example.com"}, // angle brackets win verbatim
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractEmail(tt.in); got != tt.want {
			t.Errorf("extractEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
