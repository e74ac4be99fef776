// Package secure encrypts payout payment references at rest.
package secure

import (
	"fmt"
	"log"

	"github.com/fernet/fernet-go"
)

// Codec encrypts and decrypts short secrets with a fernet key. A nil Codec is a
// passthrough, used when no key is configured.
type Codec struct {
	key *fernet.Key
}

// NewCodec decodes a base64 fernet key. An empty key returns a passthrough
// codec and logs a warning; payment references are then stored in plaintext.
func NewCodec(encodedKey string) (*Codec, error) {
	if encodedKey == "" {
		log.Println("WARNING: PAYMENT_REF_KEY not set, payment references stored unencrypted")
		return nil, nil
	}

	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payment reference key: %w", err)
	}

	return &Codec{key: key}, nil
}

// Encrypt returns the fernet token for plain, or plain unchanged on a
// passthrough codec. Empty input passes through either way.
func (c *Codec) Encrypt(plain string) (string, error) {
	if c == nil || plain == "" {
		return plain, nil
	}

	token, err := fernet.EncryptAndSign([]byte(plain), c.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt payment reference: %w", err)
	}

	return string(token), nil
}

// Decrypt reverses Encrypt. Tokens that do not verify are returned unchanged:
// rows written before encryption was enabled stay readable.
func (c *Codec) Decrypt(stored string) string {
	if c == nil || stored == "" {
		return stored
	}

	plain := fernet.VerifyAndDecrypt([]byte(stored), 0, []*fernet.Key{c.key})
	if plain == nil {
		return stored
	}

	return string(plain)
}
