package internal

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"
)

const (
	tokenEntropySize = 32
	tokenSaltSize    = 16
	tokenDisplayLen  = 8
)

// NewToken generates an opaque session token: 256 bits of CSPRNG entropy
// mixed with an independent salt and a nanosecond timestamp, condensed
// through SHA3-256 and hex encoded. The output is fixed-length (64 chars)
// and reveals nothing about the entropy source or the timestamp.
func NewToken() (string, error) {
	var seed [tokenEntropySize + tokenSaltSize + 8]byte

	if _, err := rand.Read(seed[:tokenEntropySize]); err != nil {
		return "", err
	}
	if _, err := rand.Read(seed[tokenEntropySize : tokenEntropySize+tokenSaltSize]); err != nil {
		return "", err
	}
	binary.BigEndian.PutUint64(seed[tokenEntropySize+tokenSaltSize:], uint64(time.Now().UnixNano()))

	sum := sha3.Sum256(seed[:])
	return hex.EncodeToString(sum[:]), nil
}

// DisplayToken masks a token for introspection views. Only a short prefix
// survives; the result can never be replayed as a session identifier.
func DisplayToken(token string) string {
	if len(token) <= tokenDisplayLen {
		return token
	}
	return token[:tokenDisplayLen] + "..."
}
