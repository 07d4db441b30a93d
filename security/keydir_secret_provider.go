package security

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-integrations/core"
)

const keyFileSuffix = ".key"

// KeyDirSecretProvider encrypts with the newest key file found in a directory.
// Key files are named "<key id>.key" and sort by name, so ids such as
// "integrations-20260101" rotate naturally. The directory is read on every
// call and nothing is cached.
type KeyDirSecretProvider struct {
	dir string
}

func NewKeyDirSecretProvider(dir string) (*KeyDirSecretProvider, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("security: key directory is required")
	}
	return &KeyDirSecretProvider{dir: trimmed}, nil
}

func (p *KeyDirSecretProvider) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("security: secret provider is nil")
	}
	keyID, err := p.latestKeyID()
	if err != nil {
		return nil, err
	}
	provider, err := p.provider(keyID)
	if err != nil {
		return nil, err
	}
	return provider.Encrypt(ctx, plaintext)
}

func (p *KeyDirSecretProvider) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("security: secret provider is nil")
	}
	meta, err := ParseEnvelopeMetadata(ciphertext, false)
	if err != nil {
		return nil, err
	}
	if meta.KeyID == "" {
		return nil, fmt.Errorf("security: envelope key id is required")
	}
	provider, err := p.provider(meta.KeyID)
	if err != nil {
		return nil, err
	}
	return provider.Decrypt(ctx, ciphertext)
}

// LatestKeyID reports the key id new payloads are sealed with.
func (p *KeyDirSecretProvider) LatestKeyID() (string, error) {
	if p == nil {
		return "", fmt.Errorf("security: secret provider is nil")
	}
	return p.latestKeyID()
}

func (p *KeyDirSecretProvider) latestKeyID() (string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return "", fmt.Errorf("security: read key directory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), keyFileSuffix) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), keyFileSuffix)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("security: no %s files in key directory %q", keyFileSuffix, p.dir)
	}
	sort.Strings(ids)
	return ids[len(ids)-1], nil
}

func (p *KeyDirSecretProvider) provider(keyID string) (*AppKeySecretProvider, error) {
	if strings.ContainsAny(keyID, `/\`) || keyID == "." || keyID == ".." {
		return nil, fmt.Errorf("security: invalid key id %q", keyID)
	}
	material, err := os.ReadFile(filepath.Join(p.dir, keyID+keyFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("security: read key %q: %w", keyID, err)
	}
	return NewAppKeySecretProvider(material, WithKeyID(keyID))
}

var _ core.Encryptor = (*KeyDirSecretProvider)(nil)
