package gnupg

import "strings"

// Kind selects which half of the keyring a listing covers.
type Kind int

const (
	// SecretKeys lists keys with private material (--list-secret-keys).
	SecretKeys Kind = iota
	// PublicKeys lists public keys (--list-keys).
	PublicKeys
)

// String returns a string representation of Kind.
func (k Kind) String() string {
	switch k {
	case SecretKeys:
		return "secret"
	case PublicKeys:
		return "public"
	default:
		return "unknown"
	}
}

// Identity is one key as presented to the user. The fingerprint is the
// canonical unique handle; Name and Email are display data parsed from
// the key's user ID. Identities are rebuilt from scratch on every
// listing and never mutated.
type Identity struct {
	Name        string
	Email       string
	Fingerprint string
}

// Label renders the identity as a single display string. The
// fingerprint is embedded in brackets so ParseLabel can recover it
// losslessly.
func (i Identity) Label() string {
	var b strings.Builder
	b.WriteString(i.Name)
	if i.Email != "" {
		b.WriteString(" <")
		b.WriteString(i.Email)
		b.WriteString(">")
	}
	b.WriteString(" [")
	b.WriteString(i.Fingerprint)
	b.WriteString("]")
	return strings.TrimSpace(b.String())
}

// ParseLabel recovers the fingerprint embedded in a display label.
// Returns false when the label carries no bracketed hex fingerprint.
func ParseLabel(label string) (string, bool) {
	open := strings.LastIndex(label, "[")
	close := strings.LastIndex(label, "]")
	if open < 0 || close <= open+1 {
		return "", false
	}
	fpr := normalizeHex(label[open+1 : close])
	if len(fpr) < 8 || !isHex(fpr) {
		return "", false
	}
	return fpr, true
}

// parseUserID splits a gpg user ID like
// "Alice Example (work) <alice@example.com>" into display name and
// email. When the user ID carries no email, the whole string becomes
// the name.
func parseUserID(uid string) (name, email string) {
	uid = strings.TrimSpace(uid)
	open := strings.LastIndex(uid, "<")
	close := strings.LastIndex(uid, ">")
	if open >= 0 && close > open+1 {
		email = strings.TrimSpace(uid[open+1 : close])
		name = strings.TrimSpace(uid[:open])
	} else {
		name = uid
	}
	// Drop a trailing comment from the display name.
	if i := strings.LastIndex(name, "("); i > 0 && strings.HasSuffix(name, ")") {
		name = strings.TrimSpace(name[:i])
	}
	return name, email
}

// normalizeHex uppercases s and strips interior spaces.
func normalizeHex(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// isHex reports whether s is non-empty and entirely hex digits.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
