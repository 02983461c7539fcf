package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// Backend is the local repository backend. Every operation shells out to git
// in the bound directory; go-git is used for repository checks and tree walks.
type Backend struct {
	path   string
	runner *CommandRunner

	repoOnce sync.Once
	gitRepo  *Repository
	repoErr  error
}

var _ repo.Backend = (*Backend)(nil)

// Open binds a Backend to the repository at path. The path must exist;
// whether it is a repository is checked by Check.
func Open(path string) (*Backend, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	absPath = filepath.Clean(absPath)
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &gserrors.NotFoundError{Object: "repository", Name: path, Message: fmt.Sprintf("repository path '%s' does not exist", path)}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, gserrors.NewValidationError("path", fmt.Sprintf("'%s' is not a directory", path))
	}
	return &Backend{path: absPath, runner: NewCommandRunner(absPath)}, nil
}

// Kind returns repo.KindLocal
func (b *Backend) Kind() string {
	return repo.KindLocal
}

// Key returns the absolute repository path
func (b *Backend) Key() string {
	return b.path
}

// Path returns the absolute repository path
func (b *Backend) Path() string {
	return b.path
}

// Runner returns the command runner bound to the repository
func (b *Backend) Runner() *CommandRunner {
	return b.runner
}

// Check verifies the bound path is inside a git work tree
func (b *Backend) Check(ctx context.Context) error {
	if _, err := b.repository(); err != nil {
		return err
	}
	out, err := b.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		if isNotRepository(err) {
			return &gserrors.NotFoundError{Object: "repository", Name: b.path, Message: fmt.Sprintf("'%s' is not a git repository", b.path)}
		}
		return err
	}
	if out != "true" {
		return gserrors.NewValidationError("path", fmt.Sprintf("'%s' is not inside a work tree", b.path))
	}
	return nil
}

// repository lazily opens the go-git view of the repository
func (b *Backend) repository() (*Repository, error) {
	b.repoOnce.Do(func() {
		b.gitRepo, b.repoErr = OpenRepository(b.path)
		if b.repoErr != nil {
			b.repoErr = &gserrors.NotFoundError{Object: "repository", Name: b.path, Message: fmt.Sprintf("'%s' is not a git repository", b.path)}
		}
	})
	return b.gitRepo, b.repoErr
}

// checkName rejects names git would parse as an option
func checkName(field, name string) error {
	if strings.HasPrefix(name, "-") {
		return gserrors.NewValidationError(field, "must not start with '-'")
	}
	return nil
}

// verifyCommit resolves rev to a full commit hash
func (b *Backend) verifyCommit(ctx context.Context, rev string) (string, error) {
	out, err := b.runner.Run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil || out == "" {
		return "", err
	}
	return out, nil
}

// resolveCommit resolves a commit hash or returns a CommitNotFound error
func (b *Backend) resolveCommit(ctx context.Context, hash string) (string, error) {
	full, err := b.verifyCommit(ctx, hash)
	if err != nil || full == "" {
		return "", gserrors.NewCommitNotFoundError(hash)
	}
	return full, nil
}

// resolveRef resolves a branch, tag or revision or returns an InvalidRef error
func (b *Backend) resolveRef(ctx context.Context, ref string) (string, error) {
	full, err := b.verifyCommit(ctx, ref)
	if err != nil || full == "" {
		return "", gserrors.NewInvalidRefError(ref, fmt.Sprintf("unknown revision '%s'", ref))
	}
	return full, nil
}

// refExists reports whether the fully-qualified ref exists
func (b *Backend) refExists(ctx context.Context, fullRef string) bool {
	out, err := b.runner.Run(ctx, "show-ref", "--verify", "--quiet", fullRef)
	return err == nil && out == ""
}

// hasCommits reports whether HEAD points at a commit
func (b *Backend) hasCommits(ctx context.Context) bool {
	out, err := b.verifyCommit(ctx, "HEAD")
	return err == nil && out != ""
}

// currentBranch returns the checked-out branch, or "" when HEAD is detached
func (b *Backend) currentBranch(ctx context.Context) string {
	out, err := b.runner.Run(ctx, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
