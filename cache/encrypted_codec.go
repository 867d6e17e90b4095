package cache

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// EncryptedCodec seals the output of another codec with AES-256-GCM and
// base64-encodes the result.
type EncryptedCodec struct {
	inner ValueCodec
	gcm   cipher.AEAD
}

func NewEncryptedCodec(inner ValueCodec, key []byte) (*EncryptedCodec, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &EncryptedCodec{inner: inner, gcm: gcm}, nil
}

func (c *EncryptedCodec) Name() string { return c.inner.Name() + "+aesgcm" }

func (c *EncryptedCodec) Marshal(v any) ([]byte, error) {
	plaintext, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	sealed := c.gcm.Seal(nonce, nonce, plaintext, nil)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
	base64.StdEncoding.Encode(out, sealed)
	return out, nil
}

func (c *EncryptedCodec) Unmarshal(data []byte) (any, error) {
	sealed := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(sealed, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	sealed = sealed[:n]

	nonceSize := c.gcm.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt value: %w", err)
	}
	return c.inner.Unmarshal(plaintext)
}
