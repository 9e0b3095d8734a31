// Package vault keeps bot tokens in the OS keyring.
package vault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "pippin"

var ErrSecretNotFound = errors.New("secret not found")

type Vault struct {
	ring keyring.Keyring
}

// New wraps an already opened keyring, e.g. keyring.NewArrayKeyring in tests.
func New(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// Open uses the platform keyring, falling back to an encrypted file keyring
// under fileDir.
func Open(fileDir string) (*Vault, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      serviceName,
		FileDir:          fileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(filePassphrase()),
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return New(ring), nil
}

// TokenKey names the secret holding platform's bot token.
func TokenKey(platform string) string {
	return strings.ToUpper(platform) + "_TOKEN"
}

func (v *Vault) Set(key, value string) error {
	if err := v.ring.Set(keyring.Item{Key: key, Data: []byte(value)}); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (v *Vault) Get(key string) (string, error) {
	item, err := v.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(item.Data), nil
}

func (v *Vault) Remove(key string) error {
	err := v.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, key)
	}
	return err
}

func (v *Vault) List() ([]string, error) {
	return v.ring.Keys()
}

// Resolve prefers an explicitly configured value over the stored secret.
func (v *Vault) Resolve(configured, key string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	return v.Get(key)
}
