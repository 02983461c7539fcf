package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyringStorage(t *testing.T) {
	storage := NewKeyringStorage(keyring.NewArrayKeyring(nil))

	_, err := storage.Get(TokenAccount)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Set(TokenAccount, "ghp_stored"))
	token, err := storage.Get(TokenAccount)
	require.NoError(t, err)
	assert.Equal(t, "ghp_stored", token)

	require.NoError(t, storage.Delete(TokenAccount))
	require.NoError(t, storage.Delete(TokenAccount))
	_, err = storage.Get(TokenAccount)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	gh := func(context.Context) (string, error) { return "ghp_cli", nil }
	noGH := func(context.Context) (string, error) { return "", errors.New("gh not installed") }

	t.Run("config wins", func(t *testing.T) {
		storage := NewKeyringStorage(keyring.NewArrayKeyring(nil))
		require.NoError(t, storage.Set(TokenAccount, "ghp_stored"))
		chain := &Chain{ConfigToken: " ghp_config ", Storage: storage, GH: gh}

		token, err := chain.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, Token{Value: "ghp_config", Source: SourceConfig}, token)
	})

	t.Run("keyring before gh", func(t *testing.T) {
		storage := NewKeyringStorage(keyring.NewArrayKeyring(nil))
		require.NoError(t, storage.Set(TokenAccount, "ghp_stored"))
		chain := &Chain{Storage: storage, GH: gh}

		token, err := chain.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, SourceKeyring, token.Source)
		assert.Equal(t, "ghp_stored", token.Value)
	})

	t.Run("falls back to gh", func(t *testing.T) {
		chain := &Chain{Storage: NewKeyringStorage(keyring.NewArrayKeyring(nil)), GH: gh}

		token, err := chain.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, SourceGHCLI, token.Source)
	})

	t.Run("nothing configured", func(t *testing.T) {
		chain := &Chain{GH: noGH}

		_, err := chain.Token(ctx)
		require.ErrorIs(t, err, ErrNoToken)
	})
}

func TestStaticSource(t *testing.T) {
	token, err := StaticSource("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token.Value)

	_, err = StaticSource("").Token(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
}
