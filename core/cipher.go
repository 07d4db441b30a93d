package core

import (
	"context"
	"fmt"
)

// SecretCipher seals integration bodies. It holds no per request state and is
// safe for concurrent use as long as the wrapped Encryptor is.
type SecretCipher struct {
	encryptor Encryptor
}

func NewSecretCipher(encryptor Encryptor) *SecretCipher {
	return &SecretCipher{encryptor: encryptor}
}

func (c *SecretCipher) Encrypt(ctx context.Context, plaintext string) (string, error) {
	if c == nil || c.encryptor == nil {
		return "", fmt.Errorf("core: encryptor is not configured")
	}
	sealed, err := c.encryptor.Encrypt(ctx, []byte(plaintext))
	if err != nil {
		return "", err
	}
	if len(sealed) == 0 {
		return "", fmt.Errorf("core: encryptor returned empty ciphertext")
	}
	return string(sealed), nil
}
