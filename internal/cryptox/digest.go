package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Digest returns the hex-encoded SHA-256 digest of b. Used to pin down the
// exact ciphertext that was written at store time.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// VerifyDigest reports whether b hashes to the expected hex digest.
// The comparison is constant-time.
func VerifyDigest(b []byte, expected string) bool {
	actual := Digest(b)
	if len(actual) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}
