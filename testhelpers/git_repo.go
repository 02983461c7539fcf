package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// gitEnv keeps tests independent of the developer's global git config
var gitEnv = []string{"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1", "LC_ALL=C"}

// GitRepo is a throwaway git repository used by tests
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	r := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), gitEnv...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w, output: %s", err, string(out))
	}

	// Configure Git user (required for commits made by the code under test)
	if err := r.RunGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := r.RunGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	if err := r.RunGitCommand("config", "commit.gpgsign", "false"); err != nil {
		return nil, err
	}
	if err := r.RunGitCommand("config", "tag.gpgsign", "false"); err != nil {
		return nil, err
	}

	return r, nil
}

// RunGitCommand executes a git command and returns an error if it fails.
func (r *GitRepo) RunGitCommand(args ...string) error {
	_, err := r.RunGitCommandAndGetOutput(args...)
	return err
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), gitEnv...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w, output: %s", strings.Join(args, " "), err, string(output))
	}
	return strings.TrimSpace(string(output)), nil
}

// WriteFile writes content to a path relative to the repository root
func (r *GitRepo) WriteFile(name string, content []byte) error {
	filePath := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, content, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// CreateChange creates a file change in the repository.
func (r *GitRepo) CreateChange(textValue string, prefix string, unstaged bool) error {
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	if err := r.WriteFile(fileName, []byte(textValue)); err != nil {
		return err
	}
	if !unstaged {
		return r.RunGitCommand("add", fileName)
	}
	return nil
}

// CreateChangeAndCommit creates a file change and commits it with textValue as the message.
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	return r.CommitAll(textValue)
}

// CommitFile writes a file and commits it
func (r *GitRepo) CommitFile(name, content, message string) error {
	if err := r.WriteFile(name, []byte(content)); err != nil {
		return err
	}
	return r.CommitAll(message)
}

// CommitAll stages everything and commits it
func (r *GitRepo) CommitAll(message string) error {
	if err := r.RunGitCommand("add", "-A"); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "-m", message)
}

// CreateBranch creates a new branch without checking it out.
func (r *GitRepo) CreateBranch(name string) error {
	return r.RunGitCommand("branch", name)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", name)
}

// CurrentBranchName returns the name of the current branch.
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.RunGitCommandAndGetOutput("branch", "--show-current")
}

// GetRevision returns the SHA of a revision (branch, tag, or commit reference).
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", rev)
}

// GetCurrentSHA returns the SHA of HEAD.
func (r *GitRepo) GetCurrentSHA() (string, error) {
	return r.GetRevision("HEAD")
}

// GetLocalBranches returns a list of all local branches.
func (r *GitRepo) GetLocalBranches() ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// ListCurrentBranchCommitMessages returns the commit subjects on the current branch, newest first.
func (r *GitRepo) ListCurrentBranchCommitMessages() ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("log", "--format=%s")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// StashCount returns the number of stash entries
func (r *GitRepo) StashCount() (int, error) {
	output, err := r.RunGitCommandAndGetOutput("stash", "list")
	if err != nil {
		return 0, err
	}
	return len(splitLines(output)), nil
}

// InProgress reports whether a cherry-pick, revert or merge is waiting for resolution
func (r *GitRepo) InProgress() bool {
	for _, name := range []string{"CHERRY_PICK_HEAD", "REVERT_HEAD", "MERGE_HEAD"} {
		if _, err := os.Stat(filepath.Join(r.Dir, ".git", name)); err == nil {
			return true
		}
	}
	return false
}

// CreateBareRemote creates a bare git repository next to the repo and adds it as a remote.
// Returns the path to the bare repository.
func (r *GitRepo) CreateBareRemote(name string) (string, error) {
	bareDir := r.Dir + "-" + name + ".git"

	cmd := exec.Command("git", "init", "--bare", bareDir)
	cmd.Env = append(os.Environ(), gitEnv...)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to create bare repo: %w", err)
	}

	if err := r.RunGitCommand("remote", "add", name, bareDir); err != nil {
		return "", fmt.Errorf("failed to add remote: %w", err)
	}

	return bareDir, nil
}

// splitLines splits a string by newlines and returns non-empty lines.
func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
