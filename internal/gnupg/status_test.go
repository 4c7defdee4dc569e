package gnupg

import "testing"

const goodStatus = `[GNUPG:] ENC_TO CDEF123456781234 1 0
[GNUPG:] DECRYPTION_KEY ABCD1234ABCD1234ABCD1234CDEF123456781234 - -
[GNUPG:] PLAINTEXT 62 1577836800 -
[GNUPG:] GOODSIG CDEF123456781234 Alice Example <alice@example.com>
[GNUPG:] VALIDSIG ABCD1234ABCD1234ABCD1234CDEF123456781234 2020-01-01 1577836800 0 4 0 1 10 00
[GNUPG:] DECRYPTION_OKAY
`

func TestInterpretStatusGoodSignature(t *testing.T) {
	v := InterpretStatus(goodStatus)
	if !v.Valid {
		t.Fatal("expected valid verification")
	}
	want := "CDEF123456781234 Alice Example <alice@example.com>"
	if v.Signer != want {
		t.Errorf("Signer = %q, want %q", v.Signer, want)
	}
}

func TestInterpretStatusNoMarker(t *testing.T) {
	tests := []string{
		"",
		"[GNUPG:] DECRYPTION_OKAY\n",
		"[GNUPG:] BADSIG CDEF123456781234 Alice Example <alice@example.com>\n",
		"[GNUPG:] ERRSIG CDEF123456781234 1 10 00 1577836800 9 -\n",
		// GOODSIG appearing outside the marker position must not count.
		"gpg: GOODSIG is just prose here\n",
		"[GNUPG:] GOODSIG\n", // marker with no signer tokens
	}
	for _, in := range tests {
		if v := InterpretStatus(in); v.Valid || v.Signer != "" {
			t.Errorf("InterpretStatus(%q) = %+v, want invalid", in, v)
		}
	}
}

func TestInterpretStatusDeterministic(t *testing.T) {
	first := InterpretStatus(goodStatus)
	for i := 0; i < 5; i++ {
		if got := InterpretStatus(goodStatus); got != first {
			t.Fatalf("iteration %d: %+v != %+v", i, got, first)
		}
	}
}

func TestSenderMismatch(t *testing.T) {
	tests := []struct {
		v    Verification
		want bool
	}{
		{Verification{Valid: true, SenderChecked: true, SenderMatched: false}, true},
		{Verification{Valid: true, SenderChecked: true, SenderMatched: true}, false},
		{Verification{Valid: true, SenderChecked: false}, false},
		{Verification{Valid: false, SenderChecked: true}, false},
	}
	for _, tt := range tests {
		if got := tt.v.SenderMismatch(); got != tt.want {
			t.Errorf("SenderMismatch(%+v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
