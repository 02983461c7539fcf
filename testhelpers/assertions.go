// Package testhelpers provides testing utilities for gitscope: temporary
// repository scenes, git helpers, a mock GitHub REST server and assertions.
package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. Meant for test setup code.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected local branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	output, err := repo.RunGitCommandAndGetOutput("for-each-ref", "refs/heads/", "--format=%(refname:short)")
	require.NoError(t, err, "Failed to list branches")

	actual := splitLines(output)
	sort.Strings(actual)
	want := append([]string(nil), expected...)
	sort.Strings(want)

	require.Equal(t, want, actual, "Branches do not match")
}

// ExpectCommits asserts that the newest commits on the current branch have
// the expected subjects, newest first. Older commits are not compared.
func ExpectCommits(t *testing.T, repo *GitRepo, expected ...string) {
	t.Helper()

	messages, err := repo.ListCurrentBranchCommitMessages()
	require.NoError(t, err, "Failed to list commit messages")

	if len(messages) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(messages))
		return
	}
	require.Equal(t, expected, messages[:len(expected)], "Commits do not match")
}

// ExpectClean asserts that the working tree has no changes, untracked files included.
func ExpectClean(t *testing.T, repo *GitRepo) {
	t.Helper()

	output, err := repo.RunGitCommandAndGetOutput("status", "--porcelain")
	require.NoError(t, err, "Failed to read status")
	require.Empty(t, strings.TrimSpace(output), "Working tree is not clean")
}
