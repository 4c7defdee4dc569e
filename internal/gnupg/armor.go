package gnupg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp/armor"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
)

// Armor markers gpg consumes and produces.
const (
	MessageHeader       = "-----BEGIN PGP MESSAGE-----"
	MessageFooter       = "-----END PGP MESSAGE-----"
	SignedMessageHeader = "-----BEGIN PGP SIGNED MESSAGE-----"
	SignatureFooter     = "-----END PGP SIGNATURE-----"
	PublicKeyHeader     = "-----BEGIN PGP PUBLIC KEY BLOCK-----"
)

// CheckMessageArmor rejects data that is not an armored PGP message.
// Both the header and footer must match exactly after trimming
// surrounding whitespace; the check runs before any subprocess is
// spawned.
func CheckMessageArmor(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, MessageHeader) && strings.HasSuffix(text, MessageFooter) {
		return nil
	}
	return fmt.Errorf("%w: missing %q/%q markers", rerrors.ErrFormatRejected, MessageHeader, MessageFooter)
}

// CheckSignedArmor accepts either an armored PGP message or a
// clearsigned message (signed text with a trailing signature block).
func CheckSignedArmor(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, MessageHeader) && strings.HasSuffix(text, MessageFooter) {
		return nil
	}
	if strings.HasPrefix(text, SignedMessageHeader) && strings.HasSuffix(text, SignatureFooter) {
		return nil
	}
	return fmt.Errorf("%w: input is neither an armored message nor a clearsigned message", rerrors.ErrFormatRejected)
}

// ParseArmored strictly decodes an armor block, beyond the marker
// check. Used where Rimu validates material it is about to hand to the
// user, like an exported key.
func ParseArmored(data []byte) (*armor.Block, error) {
	block, err := armor.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rerrors.ErrFormatRejected, err)
	}
	return block, nil
}
