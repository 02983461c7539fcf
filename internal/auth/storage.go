package auth

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

// ServiceName is the keyring service all gitscope credentials live under.
const ServiceName = "gitscope"

// TokenAccount is the keyring key of the GitHub token.
const TokenAccount = "github-token"

// EnvKeyringPassword unlocks the encrypted-file keyring when no OS keyring is available.
const EnvKeyringPassword = "GITSCOPE_KEYRING_PASSWORD"

// ErrNotFound is returned when a credential is not stored.
var ErrNotFound = errors.New("credential not found in keyring")

// Storage abstracts credential storage backends.
type Storage interface {
	// Set stores a credential.
	Set(account, secret string) error

	// Get retrieves a credential.
	// Returns ErrNotFound if the credential does not exist.
	Get(account string) (string, error)

	// Delete removes a credential.
	// Returns nil if the credential does not exist.
	Delete(account string) error
}

// KeyringStorage stores credentials in a keyring.Keyring
type KeyringStorage struct {
	ring keyring.Keyring
}

var _ Storage = (*KeyringStorage)(nil)

// NewKeyringStorage wraps an open keyring
func NewKeyringStorage(ring keyring.Keyring) *KeyringStorage {
	return &KeyringStorage{ring: ring}
}

// OpenKeyring opens the OS keyring, falling back to an encrypted file under
// the user's data directory.
func OpenKeyring() (*KeyringStorage, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true,
		FileDir:                  filepath.Join(home, ".local", "share", "gitscope", "keyring"),
		FilePasswordFunc:         keyring.FixedStringPrompt(os.Getenv(EnvKeyringPassword)),
	})
	if err != nil {
		return nil, err
	}
	return NewKeyringStorage(ring), nil
}

func (k *KeyringStorage) Set(account, secret string) error {
	return k.ring.Set(keyring.Item{
		Key:   account,
		Data:  []byte(secret),
		Label: "gitscope - " + account,
	})
}

func (k *KeyringStorage) Get(account string) (string, error) {
	item, err := k.ring.Get(account)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (k *KeyringStorage) Delete(account string) error {
	err := k.ring.Remove(account)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
