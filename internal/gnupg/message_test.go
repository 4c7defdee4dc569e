package gnupg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	rerrors "github.com/rimu-cli/rimu/internal/errors"
)

// keyringHandler answers key listings with the canned keyring and
// delegates everything else to op.
func keyringHandler(op func(stdin []byte, args []string) ([]byte, []byte, error)) func([]byte, []string) ([]byte, []byte, error) {
	return func(stdin []byte, args []string) ([]byte, []byte, error) {
		switch args[0] {
		case "--list-keys", "--list-secret-keys":
			return []byte(secretListing()), nil, nil
		default:
			return op(stdin, args)
		}
	}
}

func TestEncryptInvocation(t *testing.T) {
	payload := []byte("the quick brown fox")
	fake := &fakeRunner{}
	fake.handler = keyringHandler(func(stdin []byte, args []string) ([]byte, []byte, error) {
		if !bytes.Equal(stdin, payload) {
			t.Errorf("stdin = %q, want payload", stdin)
		}
		return []byte(armoredMessage), nil, nil
	})
	s := newTestService(fake)

	res, err := s.Encrypt(context.Background(), Request{Payload: payload, Recipient: aliceFpr})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !bytes.Equal(res.Output, []byte(armoredMessage)) {
		t.Errorf("Output = %q", res.Output)
	}
	if res.Verification != nil {
		t.Error("encrypt must not carry a verification")
	}

	args := fake.calls[len(fake.calls)-1].args
	joined := strings.Join(args, " ")
	for _, want := range []string{"--encrypt", "--armor", "--recipient " + aliceFpr} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %v missing %q", args, want)
		}
	}
	if strings.Contains(joined, "--sign") || strings.Contains(joined, "--local-user") {
		t.Errorf("encrypt-only args %v must not sign", args)
	}
}

func TestEncryptSignInvocation(t *testing.T) {
	fake := &fakeRunner{}
	fake.handler = keyringHandler(func(_ []byte, _ []string) ([]byte, []byte, error) {
		return []byte(armoredMessage), nil, nil
	})
	s := newTestService(fake)

	_, err := s.EncryptSign(context.Background(), Request{
		Payload:   []byte("hello"),
		Recipient: "bob@example.org",
		Signer:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("EncryptSign: %v", err)
	}

	joined := strings.Join(fake.calls[len(fake.calls)-1].args, " ")
	for _, want := range []string{"--encrypt", "--sign", "--armor", "--recipient " + bobFpr, "--local-user " + aliceFpr} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}

func TestEncryptFailsFastOnUnknownRecipient(t *testing.T) {
	unknown := "DEADBEEFDEADBEEFDEADBEEFDEADBEEFDEADBEEF"
	fake := &fakeRunner{}
	fake.handler = func(_ []byte, args []string) ([]byte, []byte, error) {
		if args[0] == "--list-keys" {
			// Pre-flight lookup: gpg reports no such key.
			return nil, []byte("gpg: error reading key: No public key"), fmt.Errorf("%w (exit 2)", rerrors.ErrNonZeroExit)
		}
		t.Errorf("unexpected invocation %v after failed pre-flight", args)
		return nil, nil, nil
	}
	s := newTestService(fake)

	res, err := s.Encrypt(context.Background(), Request{Payload: []byte("secret"), Recipient: unknown})
	if !errors.Is(err, rerrors.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	// Only the pre-flight listing may have run; no call saw the payload.
	for _, call := range fake.calls {
		if len(call.stdin) != 0 {
			t.Errorf("payload was piped to %v before pre-flight passed", call.args)
		}
	}
}

func TestDecryptRejectsUnarmoredInputBeforeSpawning(t *testing.T) {
	fake := &fakeRunner{}
	s := newTestService(fake)

	_, err := s.Decrypt(context.Background(), Request{Payload: []byte("plain text, no armor")})
	if !errors.Is(err, rerrors.ErrFormatRejected) {
		t.Fatalf("expected ErrFormatRejected, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no subprocess calls, got %d", len(fake.calls))
	}
}

func TestDecryptMissingFooterRejected(t *testing.T) {
	fake := &fakeRunner{}
	s := newTestService(fake)

	truncated := MessageHeader + "\n\nhQGMA...\n"
	_, err := s.Decrypt(context.Background(), Request{Payload: []byte(truncated)})
	if !errors.Is(err, rerrors.ErrFormatRejected) {
		t.Fatalf("expected ErrFormatRejected, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no subprocess calls, got %d", len(fake.calls))
	}
}

func TestDecryptEmptyOutputIsFailure(t *testing.T) {
	fake := &fakeRunner{handler: func(_ []byte, _ []string) ([]byte, []byte, error) {
		return []byte("  \n"), nil, nil // exit 0, nothing produced
	}}
	s := newTestService(fake)

	res, err := s.Decrypt(context.Background(), Request{Payload: []byte(armoredMessage)})
	if !errors.Is(err, rerrors.ErrEmptyOutput) {
		t.Fatalf("expected ErrEmptyOutput, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
}

func TestDecryptNonZeroExitIsFailure(t *testing.T) {
	fake := &fakeRunner{handler: func(_ []byte, _ []string) ([]byte, []byte, error) {
		// Partial status output must not be interpreted on failure.
		return []byte("partial"), []byte("[GNUPG:] GOODSIG CDEF123456781234 Alice <alice@example.com>"),
			fmt.Errorf("%w (exit 2)", rerrors.ErrNonZeroExit)
	}}
	s := newTestService(fake)

	res, err := s.DecryptVerify(context.Background(), Request{Payload: []byte(armoredMessage)})
	if !errors.Is(err, rerrors.ErrNonZeroExit) {
		t.Fatalf("expected ErrNonZeroExit, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no result on non-zero exit, got %+v", res)
	}
}

func TestDecryptVerifyInterpretsStatus(t *testing.T) {
	fake := &fakeRunner{handler: func(_ []byte, args []string) ([]byte, []byte, error) {
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "--decrypt") || !strings.Contains(joined, "--status-fd=2") {
			t.Errorf("args %q missing decrypt/status flags", joined)
		}
		return []byte("the plaintext"), []byte(goodStatus), nil
	}}
	s := newTestService(fake)

	res, err := s.DecryptVerify(context.Background(), Request{
		Payload:        []byte(armoredMessage),
		ExpectedSender: aliceFpr,
	})
	if err != nil {
		t.Fatalf("DecryptVerify: %v", err)
	}
	if string(res.Output) != "the plaintext" {
		t.Errorf("Output = %q", res.Output)
	}
	v := res.Verification
	if v == nil || !v.Valid {
		t.Fatalf("expected valid verification, got %+v", v)
	}
	if !v.SenderChecked || !v.SenderMatched {
		t.Errorf("expected sender match, got %+v", v)
	}
	if v.MatchedBy != "last-16-hex" {
		t.Errorf("MatchedBy = %q", v.MatchedBy)
	}
}

func TestDecryptVerifySenderMismatch(t *testing.T) {
	fake := &fakeRunner{handler: func(_ []byte, _ []string) ([]byte, []byte, error) {
		return []byte("the plaintext"), []byte(goodStatus), nil
	}}
	s := newTestService(fake)

	res, err := s.DecryptVerify(context.Background(), Request{
		Payload:        []byte(armoredMessage),
		ExpectedSender: "9999000011112222333344445555666677778888",
	})
	if err != nil {
		t.Fatalf("DecryptVerify: %v", err)
	}
	v := res.Verification
	if v == nil || !v.Valid {
		t.Fatalf("expected valid signature, got %+v", v)
	}
	if !v.SenderMismatch() {
		t.Errorf("expected sender mismatch, got %+v", v)
	}
}

func TestDecryptVerifyNoSignature(t *testing.T) {
	fake := &fakeRunner{handler: func(_ []byte, _ []string) ([]byte, []byte, error) {
		return []byte("the plaintext"), []byte("[GNUPG:] DECRYPTION_OKAY\n"), nil
	}}
	s := newTestService(fake)

	res, err := s.DecryptVerify(context.Background(), Request{Payload: []byte(armoredMessage)})
	if err != nil {
		t.Fatalf("DecryptVerify: %v", err)
	}
	if res.Verification == nil {
		t.Fatal("expected a verification result")
	}
	if res.Verification.Valid || res.Verification.Signer != "" {
		t.Errorf("expected invalid verification, got %+v", res.Verification)
	}
}

func TestVerifyAcceptsClearsigned(t *testing.T) {
	fake := &fakeRunner{handler: func(_ []byte, _ []string) ([]byte, []byte, error) {
		return []byte("hello\n"), []byte(goodStatus), nil
	}}
	s := newTestService(fake)

	res, err := s.Verify(context.Background(), Request{Payload: []byte(clearsignedMessage)})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Verification == nil || !res.Verification.Valid {
		t.Errorf("expected valid verification, got %+v", res.Verification)
	}
}

func TestPassphraseFileLifecycle(t *testing.T) {
	passphrase := []byte("correct horse battery staple")
	want := string(passphrase)

	var passFile string
	fake := &fakeRunner{}
	fake.handler = func(_ []byte, args []string) ([]byte, []byte, error) {
		joined := strings.Join(args, " ")
		for _, flag := range []string{"--batch", "--yes", "--pinentry-mode loopback", "--passphrase-file"} {
			if !strings.Contains(joined, flag) {
				t.Errorf("args %q missing %q", joined, flag)
			}
		}
		path, err := fake.argValue("--passphrase-file")
		if err != nil {
			t.Fatalf("argValue: %v", err)
		}
		passFile = path

		// The file must exist, be exclusively owned, and hold the
		// passphrase while the child runs.
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("passphrase file missing during invocation: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("passphrase file mode = %o, want 0600", perm)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading passphrase file: %v", err)
		}
		if string(data) != want {
			t.Errorf("passphrase file content = %q", data)
		}
		return []byte("the plaintext"), nil, nil
	}
	s := newTestService(fake)

	_, err := s.Decrypt(context.Background(), Request{
		Payload:    []byte(armoredMessage),
		Passphrase: passphrase,
	})
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	if passFile == "" {
		t.Fatal("passphrase file was never created")
	}
	if _, err := os.Stat(passFile); !os.IsNotExist(err) {
		t.Errorf("passphrase file %s still present after the call", passFile)
	}
	for i, b := range passphrase {
		if b != 0 {
			t.Fatalf("passphrase byte %d not zeroed", i)
		}
	}
}

func TestPassphraseFileRemovedOnFailure(t *testing.T) {
	var passFile string
	fake := &fakeRunner{}
	fake.handler = func(_ []byte, _ []string) ([]byte, []byte, error) {
		passFile, _ = fake.argValue("--passphrase-file")
		return nil, []byte("gpg: decryption failed: Bad passphrase"), fmt.Errorf("%w (exit 2)", rerrors.ErrNonZeroExit)
	}
	s := newTestService(fake)

	_, err := s.Decrypt(context.Background(), Request{
		Payload:    []byte(armoredMessage),
		Passphrase: []byte("wrong"),
	})
	if !errors.Is(err, rerrors.ErrNonZeroExit) {
		t.Fatalf("expected ErrNonZeroExit, got %v", err)
	}
	if passFile == "" {
		t.Fatal("passphrase file was never created")
	}
	if _, err := os.Stat(passFile); !os.IsNotExist(err) {
		t.Errorf("passphrase file %s still present after failed call", passFile)
	}
}

func TestSignInvocation(t *testing.T) {
	fake := &fakeRunner{}
	fake.handler = keyringHandler(func(_ []byte, _ []string) ([]byte, []byte, error) {
		return []byte(armoredMessage), nil, nil
	})
	s := newTestService(fake)

	_, err := s.Sign(context.Background(), Request{Payload: []byte("hello"), Signer: aliceFpr})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	joined := strings.Join(fake.calls[len(fake.calls)-1].args, " ")
	for _, want := range []string{"--sign", "--armor", "--local-user " + aliceFpr} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if strings.Contains(joined, "--encrypt") {
		t.Errorf("sign-only args %q must not encrypt", joined)
	}
}

func TestSignWithoutSignerFails(t *testing.T) {
	fake := &fakeRunner{}
	s := newTestService(fake)

	_, err := s.Sign(context.Background(), Request{Payload: []byte("hello")})
	if !errors.Is(err, rerrors.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no subprocess calls, got %d", len(fake.calls))
	}
}
