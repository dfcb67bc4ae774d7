package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/dmitrijs2005/secureshare/internal/common"
)

// Encrypt seals plaintext with AES-GCM under the given key.
//
// The key must be a valid AES key length (16, 24, or 32 bytes). A new random
// 12-byte nonce is generated for each call and prepended to the sealed data,
// so the returned ciphertext is self-contained: nonce || sealed.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm init: %w", err)
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt with the same key.
//
// Any authentication failure (wrong key, truncated or altered ciphertext)
// is reported as common.ErrIntegrity. No partial plaintext is ever
// returned.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm init: %w", err)
	}

	if len(ciphertext) < aesgcm.NonceSize() {
		return nil, common.ErrIntegrity
	}

	nonce := ciphertext[:aesgcm.NonceSize()]
	sealed := ciphertext[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, common.ErrIntegrity
	}

	return plaintext, nil
}
