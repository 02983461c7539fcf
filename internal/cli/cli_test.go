package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/charmbracelet/lipgloss"
	gh "github.com/google/go-github/v62/github"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitscope.dev/gitscope/internal/agent"
	"gitscope.dev/gitscope/internal/auth"
	"gitscope.dev/gitscope/internal/cli"
	"gitscope.dev/gitscope/internal/cli/common"
	"gitscope.dev/gitscope/internal/config"
	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/internal/runtime"
	"gitscope.dev/gitscope/internal/tui"
	"gitscope.dev/gitscope/testhelpers"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// harness runs the root command in-process against an isolated home directory
type harness struct {
	configPath string
	storage    auth.Storage
	client     *gh.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITSCOPE_GITHUB_TOKEN", "")
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(tui.EnvNoInteractive, "1")

	return &harness{
		configPath: filepath.Join(home, "gitscope", "config.yaml"),
		storage:    auth.NewKeyringStorage(keyring.NewArrayKeyring(nil)),
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts := runtime.Options{
		In:      strings.NewReader(""),
		Out:     &out,
		Err:     &errOut,
		Storage: h.storage,
	}
	if h.client != nil {
		opts.NewClient = func(context.Context, string, string) (*gh.Client, error) {
			return h.client, nil
		}
	}
	root := cli.NewRootCmd(cli.BuildInfo{Version: "test"}, opts)
	root.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err, "gitscope %s\n%s", strings.Join(args, " "), out)
	return out
}

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v), raw)
	return v
}

func TestReadCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.LinearHistorySetup(3))
	h := newHarness(t)
	r := func(args ...string) string {
		return h.mustRun(t, append([]string{"--repo", scene.Dir}, args...)...)
	}

	page := decode[repo.CommitPage](t, r("log", "-o", "json"))
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Commits, 3)
	assert.Equal(t, "commit 3", page.Commits[0].Message)

	page = decode[repo.CommitPage](t, r("log", "-n", "1", "--skip", "1", "-o", "json"))
	require.Len(t, page.Commits, 1)
	assert.Equal(t, "commit 2", page.Commits[0].Message)

	assert.Contains(t, r("show", "HEAD"), "    commit 3\n")
	assert.Contains(t, r("status"), "nothing to commit, working tree clean")
	assert.Contains(t, r("branch"), "* main")
	assert.Contains(t, r("files"), "history.txt")
	assert.Contains(t, r("diff", "HEAD~1", "HEAD"), "+commit 3")
	assert.Contains(t, r("overview"), "Working tree: clean")
	assert.Contains(t, r("validate", "-o", "yaml"), "valid: true")
}

func TestValidateMissingRepository(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "--repo", filepath.Join(t.TempDir(), "missing"), "validate", "-o", "json")
	require.ErrorIs(t, err, common.ErrOperationFailed)
	assert.Contains(t, out, `"valid": false`)
}

func TestRefCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.LinearHistorySetup(2))
	h := newHarness(t)
	r := func(args ...string) (string, error) {
		return h.run(t, append([]string{"--repo", scene.Dir}, args...)...)
	}

	out, err := r("branch", "create", "feature")
	require.NoError(t, err)
	assert.Equal(t, "✓ Branch 'feature' created and checked out\n", out)

	current, err := scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	assert.Equal(t, "feature", current)

	_, err = r("checkout", "main")
	require.NoError(t, err)
	_, err = r("branch", "delete", "feature")
	require.NoError(t, err)
	testhelpers.ExpectBranches(t, scene.Repo, []string{"main"})

	out, err = r("branch", "delete", "nope")
	require.ErrorIs(t, err, common.ErrOperationFailed)
	assert.Equal(t, "✗ branch 'nope' not found\n", out)

	_, err = r("tag", "create", "v1.0.0", "-m", "first release")
	require.NoError(t, err)
	_, err = r("tag", "create", "light")
	require.NoError(t, err)

	out, err = r("tag", "list", "-o", "json")
	require.NoError(t, err)
	tags := decode[[]repo.TagInfo](t, out)
	require.Len(t, tags, 2)
	byName := map[string]repo.TagInfo{}
	for _, tag := range tags {
		byName[tag.Name] = tag
	}
	assert.True(t, byName["v1.0.0"].IsAnnotated)
	assert.False(t, byName["light"].IsAnnotated)

	_, err = r("tag", "delete", "light")
	require.NoError(t, err)
}

func TestResetConfirmation(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.LinearHistorySetup(3))
	h := newHarness(t)
	r := func(args ...string) (string, error) {
		return h.run(t, append([]string{"--repo", scene.Dir}, args...)...)
	}

	_, err := r("reset", "HEAD~1", "--mode", "bogus")
	require.ErrorIs(t, err, gserrors.ErrValidation)

	_, err = r("reset", "HEAD~1", "--mode", "hard")
	require.ErrorIs(t, err, gserrors.ErrValidation)
	assert.Contains(t, err.Error(), "--yes")

	out, err := r("reset", "HEAD~1", "--mode", "hard", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset (hard) to")

	testhelpers.ExpectCommits(t, scene.Repo, "commit 2", "commit 1")
}

func TestBatchCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.LinearHistorySetup(3))
	second := testhelpers.Must(scene.Repo.GetRevision("HEAD~1"))

	h := newHarness(t)
	r := func(args ...string) (string, error) {
		return h.run(t, append([]string{"--repo", scene.Dir}, args...)...)
	}

	_, err := r("reset", "HEAD~2", "--mode", "hard", "--yes")
	require.NoError(t, err)

	out, err := r("cherry-pick", second)
	require.NoError(t, err)
	assert.Contains(t, out, "[1/1] ✓ "+second[:7])
	assert.Contains(t, out, "✓ Cherry-picked 1 commit(s) successfully")

	head, err := scene.Repo.GetCurrentSHA()
	require.NoError(t, err)

	out, err = r("revert", head, "-o", "json")
	require.NoError(t, err)
	result := decode[repo.OperationResult](t, out)
	assert.True(t, result.Success)
	assert.Equal(t, "Reverted 1 commit(s) successfully", result.Message)

	out, err = r("cherry-pick", "0000000000000000000000000000000000000000")
	require.ErrorIs(t, err, common.ErrOperationFailed)
	assert.Contains(t, out, "[1/1] ✗")
}

func TestStashCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	h := newHarness(t)
	r := func(args ...string) (string, error) {
		return h.run(t, append([]string{"--repo", scene.Dir}, args...)...)
	}

	out, err := r("stash", "save")
	require.ErrorIs(t, err, common.ErrOperationFailed)
	assert.Contains(t, out, "no local changes to save")

	require.NoError(t, scene.Repo.WriteFile("scratch.txt", []byte("wip\n")))
	_, err = r("stash", "save", "-m", "scratch work")
	require.NoError(t, err)
	testhelpers.ExpectClean(t, scene.Repo)

	out, err = r("stash", "-o", "json")
	require.NoError(t, err)
	entries := decode[[]repo.StashEntry](t, out)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "scratch work")

	_, err = r("stash", "apply", "5")
	require.ErrorIs(t, err, common.ErrOperationFailed)

	_, err = r("stash", "drop", "first")
	require.ErrorIs(t, err, gserrors.ErrValidation)

	_, err = r("stash", "pop")
	require.NoError(t, err)
	count, err := scene.Repo.StashCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestToolsCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.LinearHistorySetup(3))
	h := newHarness(t)

	list := h.mustRun(t, "tools", "list")
	for _, name := range []string{"getRepoOverview", "getCommitHistory", "listFiles"} {
		assert.Contains(t, list, name)
	}

	out := h.mustRun(t, "--repo", scene.Dir, "tools", "call", "getCommitHistory", `{"maxCount": 1}`, "-o", "json")
	history := decode[agent.HistoryResult](t, out)
	assert.Equal(t, 3, history.Total)
	assert.Equal(t, 1, history.Count)

	_, err := h.run(t, "--repo", scene.Dir, "tools", "call", "dropDatabase")
	require.ErrorIs(t, err, gserrors.ErrValidation)
}

func TestGitHubTarget(t *testing.T) {
	mock := testhelpers.NewMockGitHubServerConfig()
	mock.AddLinearHistory(3)
	client, owner, name := testhelpers.NewMockGitHubClient(t, mock)

	h := newHarness(t)
	h.client = client
	_, err := h.run(t, "auth", "login", "--token", "ghp_test")
	require.NoError(t, err)

	page := decode[repo.CommitPage](t, h.mustRun(t, "--github", owner+"/"+name, "log", "-o", "json"))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "commit 3", page.Commits[0].Message)

	_, err = h.run(t, "--github", "not-a-slug", "log")
	require.ErrorIs(t, err, gserrors.ErrValidation)
}

func TestConfigCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.LinearHistorySetup(3))
	h := newHarness(t)

	assert.Equal(t, h.configPath+"\n", h.mustRun(t, "config", "path"))

	h.mustRun(t, "config", "set", "history.max_count", "2")
	assert.Equal(t, "2\n", h.mustRun(t, "config", "get", "history.max_count"))

	page := decode[repo.CommitPage](t, h.mustRun(t, "--repo", scene.Dir, "log", "-o", "json"))
	assert.Len(t, page.Commits, 2)
	assert.Equal(t, 3, page.Total)

	_, err := h.run(t, "config", "set", "no.such.key", "1")
	require.ErrorIs(t, err, config.ErrInvalidKey)

	assert.Contains(t, h.mustRun(t, "config", "keys"), "agent.max_diff_chars\n")
}

func TestAuthCommands(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "auth", "login")
	require.ErrorIs(t, err, tui.ErrInteractiveDisabled)

	h.mustRun(t, "auth", "login", "--token", " ghp_stored ")
	stored, err := h.storage.Get(auth.TokenAccount)
	require.NoError(t, err)
	assert.Equal(t, "ghp_stored", stored)

	assert.Contains(t, h.mustRun(t, "auth", "status", "-o", "json"), `"source": "keyring"`)

	h.mustRun(t, "auth", "logout")
	_, err = h.storage.Get(auth.TokenAccount)
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUnknownOutputFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "-o", "xml", "config", "path")
	require.ErrorContains(t, err, `unknown output format "xml"`)
}
