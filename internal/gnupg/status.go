package gnupg

import (
	"bufio"
	"strings"
)

// Status-channel grammar. The one record Rimu interprets is
//
//	[GNUPG:] GOODSIG <long key ID> <user ID>
//
// emitted when a signature validated against a known key.
const (
	statusPrefix  = "[GNUPG:]"
	goodSigMarker = "GOODSIG"
)

// Verification is the interpreted outcome of a signature-bearing
// operation.
type Verification struct {
	// Valid is true when the status channel carried a GOODSIG record.
	Valid bool

	// Signer is the identity tokens following the GOODSIG marker: the
	// long key ID followed by the signing user ID. Empty when Valid is
	// false.
	Signer string

	// SenderChecked is true when the caller supplied an expected sender
	// and the match cascade ran.
	SenderChecked bool

	// SenderMatched is true when any match strategy accepted the signer
	// against the expected sender. Meaningful only when SenderChecked.
	SenderMatched bool

	// MatchedBy names the strategy that accepted the signer.
	MatchedBy string
}

// SenderMismatch reports whether the signature validated but the
// signer failed every match strategy against the expected sender.
func (v Verification) SenderMismatch() bool {
	return v.Valid && v.SenderChecked && !v.SenderMatched
}

// InterpretStatus scans status-channel text for a GOODSIG record. The
// scan is deterministic: the same text always yields the same result.
// Absence of the marker yields an invalid verification with no signer.
func InterpretStatus(status string) Verification {
	scanner := bufio.NewScanner(strings.NewReader(status))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 3 && fields[0] == statusPrefix && fields[1] == goodSigMarker {
			return Verification{
				Valid:  true,
				Signer: strings.Join(fields[2:], " "),
			}
		}
	}
	return Verification{}
}
