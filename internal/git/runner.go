// Package git implements the local repository backend on top of the git CLI.
package git

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	gserrors "gitscope.dev/gitscope/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// commandEnv pins the locale so stderr matching is stable and disables
// credential prompts that would block a server request.
var commandEnv = []string{"LC_ALL=C", "GIT_TERMINAL_PROMPT=0"}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
	logger     *slog.Logger
}

// NewCommandRunner creates a new CommandRunner bound to workingDir
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir, logger: slog.Default()}
}

// WorkingDir returns the directory commands run in
func (r *CommandRunner) WorkingDir() string {
	return r.workingDir
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, "", true, args...)
}

// RunRaw executes a git command and returns the raw output (no trimming).
// NUL-framed and delimiter-framed output must go through here.
func (r *CommandRunner) RunRaw(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, "", false, args...)
}

// RunWithInput executes a git command with input on stdin
func (r *CommandRunner) RunWithInput(ctx context.Context, input string, args ...string) (string, error) {
	return r.runInternal(ctx, input, true, args...)
}

// RunLines executes a git command and returns output as lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

func (r *CommandRunner) runInternal(ctx context.Context, input string, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		r.log().Debug("git command completed",
			"dir", r.workingDir,
			"args", args,
			"duration_ms", time.Since(start).Milliseconds())
	}()

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	cmd.Env = append(os.Environ(), commandEnv...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", gserrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", gserrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

func (r *CommandRunner) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}
