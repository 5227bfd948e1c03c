package db

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// keySalt is an application constant, not a per-record salt. The secret it
// stretches is per-installation, so identical secrets on different devices
// still produce the same key only for the same user.
var keySalt = []byte("triguna.storage.v1")

// Cipher encrypts free-text columns (reflections, chat content) at rest
// with AES-GCM under a scrypt-derived key. A nil *Cipher stores plaintext;
// structured analytics columns are never encrypted.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the storage key from the configured secret. An empty
// secret disables encryption and returns nil.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, nil
	}
	key, err := scrypt.Key([]byte(secret), keySalt, 32768, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive storage key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Seal encrypts plaintext to a base64 string with the nonce prefixed.
// Empty input stays empty so optional columns stay NULL-ish.
func (c *Cipher) Seal(plaintext string) (string, error) {
	if c == nil || plaintext == "" {
		return plaintext, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func (c *Cipher) Open(stored string) (string, error) {
	if c == nil || stored == "" {
		return stored, nil
	}
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plain), nil
}
