// Package cryptox implements the cryptographic core of Secure Share:
// deterministic per-file key derivation, authenticated encryption and
// content digests. All functions are stateless and safe for concurrent use.
package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the derived key length in bytes (AES-256).
	KeySize = 32

	// DeriveIterations is the PBKDF2 iteration count. Deliberately slow to
	// resist brute force against the server secret.
	DeriveIterations = 100_000

	saltSize = 16
)

// sessionSalt builds a reproducible 16-byte salt from the session id:
// the first 16 bytes, zero-padded. The salt provides domain separation
// only; secrecy comes from the server secret.
func sessionSalt(sessionID string) []byte {
	salt := make([]byte, saltSize)
	copy(salt, sessionID)
	return salt
}

// DeriveFileKey derives the symmetric key for one stored file from the
// owning session id, the file id and the server secret.
//
// The derivation is deterministic: the key is never persisted anywhere and
// is re-derived from the same three inputs on every use. Without the
// originating session id and the server secret the key cannot be
// reconstructed, so possession of raw ciphertext alone is useless.
func DeriveFileKey(sessionID, fileID string, secret []byte) []byte {
	material := make([]byte, 0, len(sessionID)+len(fileID)+len(secret)+2)
	material = append(material, sessionID...)
	material = append(material, ':')
	material = append(material, fileID...)
	material = append(material, ':')
	material = append(material, secret...)

	return pbkdf2.Key(material, sessionSalt(sessionID), DeriveIterations, KeySize, sha256.New)
}
