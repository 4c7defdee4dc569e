package gnupg

import "strings"

// MatchStrategy is one named way of accepting a signer identity
// against an expected sender. Strategies are evaluated in the fixed
// order of SenderMatchStrategies; any single success is a match.
//
// The leniency here is deliberate and load-bearing: signer identities
// arrive in several shapes (full fingerprint, 16- or 8-character key
// ID, display label with embedded email) depending on gpg version and
// keyring contents. Whether this leniency is security policy or a
// workaround for upstream formatting drift is an open question; do not
// tighten or loosen the cascade without resolving it.
type MatchStrategy struct {
	Name  string
	Match func(expected, signer string) bool
}

// SenderMatchStrategies is the ordered cascade run by MatchSender.
var SenderMatchStrategies = []MatchStrategy{
	{Name: "full-fingerprint", Match: matchFullFingerprint},
	{Name: "last-16-hex", Match: matchHexSuffix16},
	{Name: "last-8-hex", Match: matchHexSuffix8},
	{Name: "reverse-partial", Match: matchReversePartial},
	{Name: "embedded-email", Match: matchEmbeddedEmail},
}

// MatchSender runs the cascade and returns whether any strategy
// accepted the signer, plus the name of the first one that did.
func MatchSender(expected, signer string) (bool, string) {
	for _, st := range SenderMatchStrategies {
		if st.Match(expected, signer) {
			return true, st.Name
		}
	}
	return false, ""
}

// expectedFingerprint extracts the canonical hex fingerprint carried
// by an expected-sender selector: a bracketed label fingerprint, or
// the selector itself when it is bare hex.
func expectedFingerprint(expected string) string {
	if fpr, ok := ParseLabel(expected); ok {
		return fpr
	}
	if norm := normalizeHex(expected); isHex(norm) && len(norm) >= 8 {
		return norm
	}
	return ""
}

// extractEmail pulls an email out of an identity string, either inside
// angle brackets or as a bare token containing '@'.
func extractEmail(s string) string {
	open := strings.LastIndex(s, "<")
	close := strings.LastIndex(s, ">")
	if open >= 0 && close > open+1 {
		return strings.TrimSpace(s[open+1 : close])
	}
	for _, tok := range strings.Fields(s) {
		if strings.Count(tok, "@") == 1 && !strings.HasPrefix(tok, "@") && !strings.HasSuffix(tok, "@") {
			return tok
		}
	}
	return ""
}

func matchFullFingerprint(expected, signer string) bool {
	fpr := expectedFingerprint(expected)
	return fpr != "" && strings.Contains(normalizeHex(signer), fpr)
}

func matchHexSuffix16(expected, signer string) bool {
	return matchHexSuffix(expected, signer, 16)
}

func matchHexSuffix8(expected, signer string) bool {
	return matchHexSuffix(expected, signer, 8)
}

func matchHexSuffix(expected, signer string, n int) bool {
	fpr := expectedFingerprint(expected)
	if len(fpr) < n {
		return false
	}
	return strings.Contains(normalizeHex(signer), fpr[len(fpr)-n:])
}

// matchReversePartial accepts when any hex token of the signer (eight
// characters or longer) is itself contained in the expected
// fingerprint — the mirror image of the suffix strategies, for signer
// identities shorter than the expected handle.
func matchReversePartial(expected, signer string) bool {
	fpr := expectedFingerprint(expected)
	if fpr == "" {
		return false
	}
	for _, tok := range strings.Fields(signer) {
		norm := normalizeHex(tok)
		if isHex(norm) && len(norm) >= 8 && strings.Contains(fpr, norm) {
			return true
		}
	}
	return false
}

func matchEmbeddedEmail(expected, signer string) bool {
	want := extractEmail(expected)
	got := extractEmail(signer)
	return want != "" && got != "" && strings.EqualFold(want, got)
}
