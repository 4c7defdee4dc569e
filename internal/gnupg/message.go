package gnupg

import (
	"bytes"
	"context"
	"fmt"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
)

// Request describes one message operation. Selector fields accept a
// display label, fingerprint (or fragment), email, or name substring;
// they are resolved to canonical fingerprints before the invocation is
// built. Passphrase is consumed by exactly one invocation and zeroed
// before the call returns.
type Request struct {
	Payload        []byte
	Signer         string
	Recipient      string
	ExpectedSender string
	Passphrase     []byte
}

// Result is the outcome of a successful operation. Verification is
// non-nil only for interpretable operations (decrypt+verify, verify).
type Result struct {
	Output       []byte
	Verification *Verification
}

type operation int

const (
	opEncrypt operation = iota
	opSign
	opEncryptSign
	opDecrypt
	opDecryptVerify
	opVerify
)

func (op operation) String() string {
	switch op {
	case opEncrypt:
		return "encrypt"
	case opSign:
		return "sign"
	case opEncryptSign:
		return "encrypt+sign"
	case opDecrypt:
		return "decrypt"
	case opDecryptVerify:
		return "decrypt+verify"
	case opVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// interpretable operations carry --status-fd and their status text is
// handed to the interpreter on success.
func (op operation) interpretable() bool {
	return op == opDecryptVerify || op == opVerify
}

// consumesArmor operations take an armored message as input and reject
// anything else before spawning gpg.
func (op operation) consumesArmor() bool {
	return op == opDecrypt || op == opDecryptVerify || op == opVerify
}

// Encrypt encrypts the payload to the recipient.
func (s *Service) Encrypt(ctx context.Context, req Request) (*Result, error) {
	return s.transform(ctx, req, opEncrypt)
}

// Sign signs the payload with the signer's key.
func (s *Service) Sign(ctx context.Context, req Request) (*Result, error) {
	return s.transform(ctx, req, opSign)
}

// EncryptSign encrypts the payload to the recipient and signs it with
// the signer's key in one invocation.
func (s *Service) EncryptSign(ctx context.Context, req Request) (*Result, error) {
	return s.transform(ctx, req, opEncryptSign)
}

// Decrypt decrypts an armored message.
func (s *Service) Decrypt(ctx context.Context, req Request) (*Result, error) {
	return s.transform(ctx, req, opDecrypt)
}

// DecryptVerify decrypts an armored message and interprets the status
// channel for an embedded signature. When req.ExpectedSender is set,
// the signer is additionally matched against it.
func (s *Service) DecryptVerify(ctx context.Context, req Request) (*Result, error) {
	return s.transform(ctx, req, opDecryptVerify)
}

// Verify checks the signature on an armored or clearsigned message and
// returns the embedded text.
func (s *Service) Verify(ctx context.Context, req Request) (*Result, error) {
	return s.transform(ctx, req, opVerify)
}

// transform is the single execution path behind every operation:
// resolve selectors, build argv, run one gpg invocation streaming the
// payload through stdin, classify the outcome, and interpret status
// text where the operation calls for it. Any failure degrades
// uniformly to a nil result and an error — never partial output.
func (s *Service) transform(ctx context.Context, req Request, op operation) (*Result, error) {
	defer Zero(req.Passphrase)

	if op.consumesArmor() {
		var err error
		if op == opVerify {
			err = CheckSignedArmor(req.Payload)
		} else {
			err = CheckMessageArmor(req.Payload)
		}
		if err != nil {
			s.log.Errorf("%s rejected: %v", op, err)
			return nil, err
		}
	}

	var args []string
	switch op {
	case opEncrypt:
		args = []string{"--encrypt", "--armor"}
	case opSign:
		args = []string{"--sign", "--armor"}
	case opEncryptSign:
		args = []string{"--encrypt", "--sign", "--armor"}
	case opDecrypt:
		args = []string{"--decrypt"}
	case opDecryptVerify, opVerify:
		args = []string{"--decrypt", "--status-fd=2"}
	}

	if op == opEncrypt || op == opEncryptSign {
		if req.Recipient == "" {
			return nil, fmt.Errorf("%w: no recipient given", rerrors.ErrKeyNotFound)
		}
		fpr, err := s.ResolveKey(ctx, req.Recipient, PublicKeys)
		if err != nil {
			return nil, err
		}
		// Fail fast on a recipient gpg does not actually hold, before
		// any message bytes are piped.
		if !s.HasPublicKey(ctx, fpr) {
			return nil, fmt.Errorf("%w: recipient %s", rerrors.ErrKeyNotFound, fpr)
		}
		args = append(args, "--recipient", fpr)
	}

	if op == opSign || op == opEncryptSign {
		if req.Signer == "" {
			return nil, fmt.Errorf("%w: no signing key given", rerrors.ErrKeyNotFound)
		}
		fpr, err := s.ResolveKey(ctx, req.Signer, SecretKeys)
		if err != nil {
			return nil, err
		}
		args = append(args, "--local-user", fpr)
	}

	if len(req.Passphrase) > 0 {
		path, cleanup, err := writePassphraseFile(req.Passphrase)
		if err != nil {
			return nil, err
		}
		// The file is removed on every exit path before this call
		// returns, success or failure.
		defer cleanup()
		args = append(args, "--batch", "--yes", "--pinentry-mode", "loopback", "--passphrase-file", path)
	}

	stdout, status, err := s.invoke(ctx, req.Payload, args...)
	if err != nil {
		s.log.Errorf("%s failed: %v", op, err)
		return nil, err
	}

	// Exit 0 with nothing on stdout means gpg ran but produced no
	// result; that is a failure, not success.
	if len(bytes.TrimSpace(stdout)) == 0 {
		s.log.Errorf("%s failed: %v", op, rerrors.ErrEmptyOutput)
		return nil, fmt.Errorf("%w during %s", rerrors.ErrEmptyOutput, op)
	}

	result := &Result{Output: stdout}

	if op.interpretable() {
		v := InterpretStatus(string(status))
		if v.Valid && req.ExpectedSender != "" {
			v.SenderChecked = true
			v.SenderMatched, v.MatchedBy = MatchSender(req.ExpectedSender, v.Signer)
		}
		result.Verification = &v
	}

	s.log.Infof("%s succeeded (%d bytes out)", op, len(result.Output))
	return result, nil
}
