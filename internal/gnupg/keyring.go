package gnupg

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
)

// ListIdentities enumerates the keyring half selected by kind, in the
// order gpg reports the keys. Failure yields a nil slice and an error;
// the caller decides how to surface it.
func (s *Service) ListIdentities(ctx context.Context, kind Kind) ([]Identity, error) {
	listFlag := "--list-keys"
	record := "pub"
	if kind == SecretKeys {
		listFlag = "--list-secret-keys"
		record = "sec"
	}

	stdout, _, err := s.invoke(ctx, nil, listFlag, "--with-colons", "--fingerprint")
	if err != nil {
		s.log.Errorf("Listing %s keys failed: %v", kind, err)
		return nil, err
	}

	ids := ParseColonListing(string(stdout), record)
	s.log.Infof("Listed %d %s keys", len(ids), kind)
	return ids, nil
}

// ParseColonListing parses gpg --with-colons output into identities.
//
// A record of the requested type (pub or sec) opens a pending identity
// keyed initially by the key ID field; a following fpr record upgrades
// it to the full fingerprint; the next uid record completes it with
// display name and email. Record groups missing any of those pieces
// are dropped silently — no partial identities are ever returned.
func ParseColonListing(out, record string) []Identity {
	var ids []Identity
	var pending *Identity

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, ":")
		switch fields[0] {
		case record:
			// A new record group; an unfinished pending identity is dropped.
			pending = nil
			if len(fields) > 4 && fields[4] != "" {
				pending = &Identity{Fingerprint: normalizeHex(fields[4])}
			}
		case "fpr":
			if pending != nil && len(fields) > 9 && fields[9] != "" {
				pending.Fingerprint = normalizeHex(fields[9])
			}
		case "uid":
			if pending != nil && len(fields) > 9 && strings.TrimSpace(fields[9]) != "" {
				name, email := parseUserID(fields[9])
				ids = append(ids, Identity{Name: name, Email: email, Fingerprint: pending.Fingerprint})
				pending = nil
			}
		case "sub", "ssb":
			// Subkey records follow the uid; their fpr lines must not
			// attach to a key group that never produced a uid.
			pending = nil
		}
	}
	return ids
}

// ResolveKey turns a user-supplied selector (display label, bare
// fingerprint or fragment, email, or name substring) into a canonical
// fingerprint against the keyring half selected by kind.
func (s *Service) ResolveKey(ctx context.Context, selector string, kind Kind) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return "", fmt.Errorf("%w: empty selector", rerrors.ErrKeyNotFound)
	}

	// A label embeds the fingerprint; never re-derive it from the rest
	// of the display text.
	if fpr, ok := ParseLabel(selector); ok {
		return fpr, nil
	}

	norm := normalizeHex(selector)
	hexSelector := isHex(norm) && len(norm) >= 8
	if hexSelector && len(norm) == 40 {
		return norm, nil
	}

	ids, err := s.ListIdentities(ctx, kind)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 && kind == SecretKeys {
		return "", fmt.Errorf("%w: cannot resolve %s", rerrors.ErrNoSecretKeys, selector)
	}

	// A shortened key ID canonicalizes to the full fingerprint of the
	// key carrying it, so downstream argv always binds the same handle
	// every other selector form yields.
	if hexSelector {
		for _, id := range ids {
			if strings.Contains(id.Fingerprint, norm) {
				return id.Fingerprint, nil
			}
		}
		return "", fmt.Errorf("%w: %s", rerrors.ErrKeyNotFound, selector)
	}

	for _, id := range ids {
		if id.Email != "" && strings.EqualFold(id.Email, selector) {
			return id.Fingerprint, nil
		}
	}

	lower := strings.ToLower(selector)
	for _, id := range ids {
		if strings.Contains(strings.ToLower(id.Name), lower) {
			return id.Fingerprint, nil
		}
	}

	return "", fmt.Errorf("%w: %s", rerrors.ErrKeyNotFound, selector)
}

// HasPublicKey reports whether fingerprint resolves to a key in the
// public keyring. Used as the encrypt-path pre-flight so a bad
// recipient fails fast before any message bytes are piped.
func (s *Service) HasPublicKey(ctx context.Context, fingerprint string) bool {
	out, _, err := s.invoke(ctx, nil, "--list-keys", "--with-colons", "--fingerprint", fingerprint)
	if err != nil {
		return false
	}
	return strings.Contains(normalizeHex(string(out)), normalizeHex(fingerprint))
}

// ExportPublicKey exports the armored public key matching selector.
func (s *Service) ExportPublicKey(ctx context.Context, selector string) ([]byte, error) {
	fpr, err := s.ResolveKey(ctx, selector, PublicKeys)
	if err != nil {
		return nil, err
	}

	out, _, err := s.invoke(ctx, nil, "--export", "--armor", fpr)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, fmt.Errorf("%w: no key material for %s", rerrors.ErrEmptyOutput, fpr)
	}
	return out, nil
}
