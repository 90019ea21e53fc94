package internal

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// FingerprintUserAgent returns the one-way fingerprint of a raw User-Agent
// string. The raw value is never persisted; only this hash is stored and
// compared on subsequent requests.
func FingerprintUserAgent(userAgent string) [32]byte {
	return sha256.Sum256([]byte(userAgent))
}

// FingerprintEqual compares two fingerprints in constant time.
func FingerprintEqual(a, b [32]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// FingerprintDigest renders a short hex digest of a fingerprint for
// display purposes.
func FingerprintDigest(fp [32]byte) string {
	return hex.EncodeToString(fp[:4])
}
