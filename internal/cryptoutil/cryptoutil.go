// Package cryptoutil seals values stored outside the process, such as
// session records in Redis.
package cryptoutil

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// versionV1 prefixes every sealed value so the format can change later.
var versionV1 = []byte("v1:")

// ErrNotSealed is returned by Open for values without a known version
// prefix.
var ErrNotSealed = errors.New("value is not sealed")

// Sealer encrypts and authenticates opaque values.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// AESGCM is a Sealer using AES-256-GCM with a random nonce per value.
// Sealed values are "v1:" followed by base64(nonce || ciphertext).
type AESGCM struct {
	aead cipher.AEAD
}

var _ Sealer = (*AESGCM)(nil)

// NewAESGCM builds a sealer from a 32 byte key.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aes-gcm key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCM{aead: aead}, nil
}

// Seal encrypts plaintext.
func (a *AESGCM) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	raw := a.aead.Seal(nonce, nonce, plaintext, nil)

	out := make([]byte, len(versionV1)+base64.StdEncoding.EncodedLen(len(raw)))
	copy(out, versionV1)
	base64.StdEncoding.Encode(out[len(versionV1):], raw)
	return out, nil
}

// Open reverses Seal. Values without the version prefix return
// ErrNotSealed.
func (a *AESGCM) Open(sealed []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}
	enc := sealed[len(versionV1):]
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(enc)))
	n, err := base64.StdEncoding.Decode(raw, enc)
	if err != nil {
		return nil, fmt.Errorf("decode sealed value: %w", err)
	}
	raw = raw[:n]

	ns := a.aead.NonceSize()
	if len(raw) < ns {
		return nil, errors.New("sealed value too short")
	}
	pt, err := a.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("open sealed value: %w", err)
	}
	return pt, nil
}

// IsSealed reports whether b carries a known version prefix.
func IsSealed(b []byte) bool {
	return bytes.HasPrefix(b, versionV1)
}
