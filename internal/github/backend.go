package github

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/go-github/v62/github"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// DefaultMaxScan bounds how many commits filtered history scans client-side
const DefaultMaxScan = 1000

// Options configures a Backend
type Options struct {
	// MaxScan bounds the commits scanned when history is filtered
	MaxScan int
}

// Backend is the hosted repository backend. A hosted repository has no
// working tree, so mutations apply to the default branch.
type Backend struct {
	client  *github.Client
	owner   string
	name    string
	maxScan int

	mu            sync.Mutex
	defaultBranch string
}

var _ repo.Backend = (*Backend)(nil)

// New binds a Backend to owner/name
func New(client *github.Client, owner, name string, opts Options) *Backend {
	maxScan := opts.MaxScan
	if maxScan <= 0 {
		maxScan = DefaultMaxScan
	}
	return &Backend{client: client, owner: owner, name: name, maxScan: maxScan}
}

// Kind returns repo.KindGitHub
func (b *Backend) Kind() string {
	return repo.KindGitHub
}

// Key returns owner/name lower-cased
func (b *Backend) Key() string {
	return strings.ToLower(b.owner + "/" + b.name)
}

// Owner returns the repository owner
func (b *Backend) Owner() string {
	return b.owner
}

// Name returns the repository name
func (b *Backend) Name() string {
	return b.name
}

// Check verifies the repository exists and is visible with the current token
func (b *Backend) Check(ctx context.Context) error {
	r, resp, err := b.client.Repositories.Get(ctx, b.owner, b.name)
	if err != nil {
		return wrapError("get repository", resp, err, b.repoNotFound)
	}
	b.mu.Lock()
	b.defaultBranch = r.GetDefaultBranch()
	b.mu.Unlock()
	return nil
}

func (b *Backend) repoNotFound() error {
	return &gserrors.NotFoundError{Object: "repository", Name: b.owner + "/" + b.name}
}

// getDefaultBranch returns the repository's default branch, fetching it once
func (b *Backend) getDefaultBranch(ctx context.Context) (string, error) {
	b.mu.Lock()
	branch := b.defaultBranch
	b.mu.Unlock()
	if branch != "" {
		return branch, nil
	}
	if err := b.Check(ctx); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.defaultBranch == "" {
		return "", fmt.Errorf("repository %s/%s has no default branch", b.owner, b.name)
	}
	return b.defaultBranch, nil
}

// branchHead returns the commit a branch points at
func (b *Backend) branchHead(ctx context.Context, branch string) (string, error) {
	ref, resp, err := b.client.Git.GetRef(ctx, b.owner, b.name, "heads/"+branch)
	if err != nil {
		return "", wrapError("get branch", resp, err, func() error {
			return &gserrors.NotFoundError{Object: "branch", Name: branch}
		})
	}
	return ref.GetObject().GetSHA(), nil
}

// resolveRef resolves a branch, tag or SHA to a commit SHA
func (b *Backend) resolveRef(ctx context.Context, ref string) (string, error) {
	sha, resp, err := b.client.Repositories.GetCommitSHA1(ctx, b.owner, b.name, ref, "")
	if err != nil {
		return "", wrapError("resolve ref", resp, err, func() error {
			return gserrors.NewInvalidRefError(ref, fmt.Sprintf("unknown revision '%s'", ref))
		})
	}
	return sha, nil
}

// resolveCommit resolves a commit hash or returns a CommitNotFound error
func (b *Backend) resolveCommit(ctx context.Context, hash string) (string, error) {
	sha, resp, err := b.client.Repositories.GetCommitSHA1(ctx, b.owner, b.name, hash, "")
	if err != nil {
		return "", wrapError("resolve commit", resp, err, func() error {
			return gserrors.NewCommitNotFoundError(hash)
		})
	}
	return sha, nil
}

func (b *Backend) unsupported(op string) error {
	return gserrors.NewUnsupportedError(repo.KindGitHub, op)
}
