// Package auth resolves the GitHub token used by hosted repository backends.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrNoToken is returned when no source in the chain yields a token.
var ErrNoToken = errors.New("no GitHub token found (set github.token or GITHUB_TOKEN, run 'gitscope auth login', or log in with 'gh auth login')")

// Source names where a token came from
type Source string

const (
	SourceConfig  Source = "config"
	SourceKeyring Source = "keyring"
	SourceGHCLI   Source = "gh"
)

// Token is a resolved GitHub token
type Token struct {
	Value  string
	Source Source
}

// TokenSource yields the token for GitHub API calls.
type TokenSource interface {
	Token(ctx context.Context) (Token, error)
}

// StaticSource always returns the same token
type StaticSource string

// Token implements TokenSource
func (s StaticSource) Token(context.Context) (Token, error) {
	if s == "" {
		return Token{}, ErrNoToken
	}
	return Token{Value: string(s), Source: SourceConfig}, nil
}

// ghTimeout bounds the gh subprocess
const ghTimeout = 10 * time.Second

// Chain tries the configured token, then the keyring, then `gh auth token`.
type Chain struct {
	// ConfigToken comes from github.token or GITHUB_TOKEN
	ConfigToken string
	// Storage is the keyring; nil skips it
	Storage Storage
	// GH runs `gh auth token`; nil skips it
	GH func(ctx context.Context) (string, error)
}

// NewChain builds the default chain
func NewChain(configToken string, storage Storage) *Chain {
	return &Chain{ConfigToken: configToken, Storage: storage, GH: GHToken}
}

// Token implements TokenSource
func (c *Chain) Token(ctx context.Context) (Token, error) {
	if token := strings.TrimSpace(c.ConfigToken); token != "" {
		return Token{Value: token, Source: SourceConfig}, nil
	}
	if c.Storage != nil {
		if token, err := c.Storage.Get(TokenAccount); err == nil && token != "" {
			return Token{Value: token, Source: SourceKeyring}, nil
		}
	}
	if c.GH != nil {
		if token, err := c.GH(ctx); err == nil && token != "" {
			return Token{Value: token, Source: SourceGHCLI}, nil
		}
	}
	return Token{}, ErrNoToken
}

// GHToken asks the GitHub CLI for its token
func GHToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ghTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token from gh: %w", err)
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}
