package internal

import (
	"encoding/hex"
	"testing"
)

func TestNewTokenUniqueness(t *testing.T) {
	const n = 10000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		token, err := NewToken()
		if err != nil {
			t.Fatalf("token generation failed: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token after %d generations: %s", i, token)
		}
		seen[token] = struct{}{}
	}
}

func TestNewTokenShape(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64-char token, got %d", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}
}

func TestDisplayTokenMasks(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	display := DisplayToken(token)
	if display == token {
		t.Fatal("display form must not equal the full token")
	}
	if len(display) != tokenDisplayLen+3 {
		t.Fatalf("unexpected display length %d", len(display))
	}

	if got := DisplayToken("short"); got != "short" {
		t.Fatalf("short tokens pass through unmodified, got %q", got)
	}
}

func TestFingerprintUserAgent(t *testing.T) {
	a := FingerprintUserAgent("Mozilla/5.0 (X11; Linux x86_64)")
	b := FingerprintUserAgent("Mozilla/5.0 (X11; Linux x86_64)")
	c := FingerprintUserAgent("curl/8.5.0")

	if !FingerprintEqual(a, b) {
		t.Fatal("identical user agents must produce identical fingerprints")
	}
	if FingerprintEqual(a, c) {
		t.Fatal("distinct user agents must produce distinct fingerprints")
	}
	if len(FingerprintDigest(a)) != 8 {
		t.Fatalf("digest length %d", len(FingerprintDigest(a)))
	}
}
