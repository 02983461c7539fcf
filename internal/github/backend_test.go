package github_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	gh "github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"

	gserrors "gitscope.dev/gitscope/internal/errors"
	githubpkg "gitscope.dev/gitscope/internal/github"
	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/testhelpers"
)

func newBackend(t *testing.T, config *testhelpers.MockGitHubServerConfig, opts githubpkg.Options) *githubpkg.Backend {
	t.Helper()
	client, owner, name := testhelpers.NewMockGitHubClient(t, config)
	return githubpkg.New(client, owner, name, opts)
}

func TestBackendIdentity(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	config.Owner, config.Repo = "Octo", "Hello-World"
	backend := newBackend(t, config, githubpkg.Options{})

	require.Equal(t, repo.KindGitHub, backend.Kind())
	require.Equal(t, "octo/hello-world", backend.Key())
	require.NoError(t, backend.Check(context.Background()))
}

func TestCheckMissingRepository(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	client, _, _ := testhelpers.NewMockGitHubClient(t, config)
	backend := githubpkg.New(client, "someone", "else", githubpkg.Options{})

	err := backend.Check(context.Background())
	require.ErrorIs(t, err, gserrors.ErrNotFound)
}

func TestListCommits(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(250)
	backend := newBackend(t, config, githubpkg.Options{})

	t.Run("first page is newest first", func(t *testing.T) {
		commits, err := backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 3})
		require.NoError(t, err)
		require.Len(t, commits, 3)
		require.Equal(t, "commit 250", commits[0].Message)
		require.Equal(t, shas[249], commits[0].Hash)
		require.Equal(t, shas[249][:7], commits[0].AbbreviatedHash)
		require.Equal(t, []string{shas[248]}, commits[0].ParentHashes)
		require.Equal(t, "Test User", commits[0].AuthorName)
	})

	t.Run("skip crosses page boundaries", func(t *testing.T) {
		commits, err := backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 5, Skip: 98})
		require.NoError(t, err)
		require.Len(t, commits, 5)
		require.Equal(t, "commit 152", commits[0].Message)
		require.Equal(t, "commit 148", commits[4].Message)
	})

	t.Run("skip past the end is empty", func(t *testing.T) {
		commits, err := backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 5, Skip: 400})
		require.NoError(t, err)
		require.Empty(t, commits)
	})

	t.Run("search filters subjects case-insensitively", func(t *testing.T) {
		commits, err := backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 50, Search: "COMMIT 24"})
		require.NoError(t, err)
		// commit 24 and commit 240..249
		require.Len(t, commits, 11)
		require.Equal(t, "commit 249", commits[0].Message)
		require.Equal(t, "commit 24", commits[10].Message)
	})

	t.Run("filtered skip counts matches", func(t *testing.T) {
		commits, err := backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 2, Skip: 10, Search: "commit 24"})
		require.NoError(t, err)
		require.Len(t, commits, 1)
		require.Equal(t, "commit 24", commits[0].Message)
	})

	t.Run("author filter", func(t *testing.T) {
		commits, err := backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 5, Author: "nobody"})
		require.NoError(t, err)
		require.Empty(t, commits)

		commits, err = backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 5, Author: "test@example"})
		require.NoError(t, err)
		require.Len(t, commits, 5)
	})

	t.Run("unknown branch", func(t *testing.T) {
		_, err := backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 5, Branch: "missing"})
		require.ErrorIs(t, err, gserrors.ErrInvalidRef)
	})
}

func TestSearchIgnoresBody(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(1)
	body := config.AddCommit("plain subject\n\nneedle in body", nil, shas[0])
	config.SetBranch(config.DefaultBranch, config.AddCommit("needle in subject", nil, body))
	backend := newBackend(t, config, githubpkg.Options{})

	opts := repo.ListCommitsOptions{MaxCount: 10, Search: "needle"}
	commits, err := backend.ListCommits(ctx, opts)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Equal(t, "needle in subject", commits[0].Message)

	total, err := backend.CountCommits(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestListCommitsScanLimit(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	config.AddLinearHistory(30)
	backend := newBackend(t, config, githubpkg.Options{MaxScan: 10})

	commits, err := backend.ListCommits(context.Background(), repo.ListCommitsOptions{MaxCount: 50, Search: "commit"})
	require.NoError(t, err)
	require.Len(t, commits, 10)
}

func TestCountCommits(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	config.AddLinearHistory(42)
	backend := newBackend(t, config, githubpkg.Options{})

	count, err := backend.CountCommits(ctx, repo.ListCommitsOptions{})
	require.NoError(t, err)
	require.Equal(t, 42, count)

	count, err = backend.CountCommits(ctx, repo.ListCommitsOptions{Search: "commit 4"})
	require.NoError(t, err)
	// commit 4 and commit 40..42
	require.Equal(t, 4, count)
}

func TestEmptyRepository(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	backend := newBackend(t, config, githubpkg.Options{})

	commits, err := backend.ListCommits(ctx, repo.ListCommitsOptions{MaxCount: 10})
	require.NoError(t, err)
	require.Empty(t, commits)

	count, err := backend.CountCommits(ctx, repo.ListCommitsOptions{})
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestCommitDetail(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	root := config.AddCommit("initial", []*gh.CommitFile{{
		Filename:  gh.String("README.md"),
		Status:    gh.String("added"),
		Additions: gh.Int(2),
		Changes:   gh.Int(2),
		Patch:     gh.String("@@ -0,0 +1,2 @@\n+hello\n+world"),
	}})
	second := config.AddCommit("add assets\n\nwith a body", []*gh.CommitFile{
		{
			Filename: gh.String("logo.png"),
			Status:   gh.String("added"),
		},
		{
			Filename:         gh.String("docs/README.md"),
			PreviousFilename: gh.String("README.md"),
			Status:           gh.String("renamed"),
		},
	}, root)
	config.SetBranch("main", second)
	backend := newBackend(t, config, githubpkg.Options{})

	t.Run("text changes", func(t *testing.T) {
		detail, err := backend.CommitDetail(ctx, root)
		require.NoError(t, err)
		require.Equal(t, "initial", detail.Message)
		require.Len(t, detail.Files, 1)
		require.Equal(t, repo.StatusAdded, detail.Files[0].Status)
		require.Equal(t, 2, detail.Files[0].Insertions)
		require.Equal(t, 1, detail.Stats.Changed)
		require.Equal(t, 2, detail.Stats.Insertions)
		require.Contains(t, detail.Diff, "diff --git a/README.md b/README.md")
		require.Contains(t, detail.Diff, "--- /dev/null")
		require.Contains(t, detail.Diff, "+hello")
	})

	t.Run("binary and rename", func(t *testing.T) {
		detail, err := backend.CommitDetail(ctx, second[:10])
		require.NoError(t, err)
		require.Equal(t, "add assets", detail.Message)
		require.Equal(t, "with a body", detail.Body)
		require.Len(t, detail.Files, 2)

		require.True(t, detail.Files[0].Binary)
		require.Zero(t, detail.Files[0].Insertions)
		require.False(t, detail.Files[1].Binary)
		require.Equal(t, repo.StatusRenamed, detail.Files[1].Status)
		require.Equal(t, "docs/README.md", detail.Files[1].File)

		require.Contains(t, detail.Diff, "Binary files /dev/null and b/logo.png differ")
		require.Contains(t, detail.Diff, "rename from README.md\nrename to docs/README.md")
	})

	t.Run("unknown hash", func(t *testing.T) {
		_, err := backend.CommitDetail(ctx, "deadbeefdeadbeef")
		require.ErrorIs(t, err, gserrors.ErrCommitNotFound)
	})
}

func TestBranches(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(3)
	backend := newBackend(t, config, githubpkg.Options{})

	t.Run("create at head and at start point", func(t *testing.T) {
		require.NoError(t, backend.CreateBranch(ctx, "feature", ""))
		require.Equal(t, shas[2], config.Ref("heads/feature"))

		require.NoError(t, backend.CreateBranch(ctx, "old", shas[0]))
		require.Equal(t, shas[0], config.Ref("heads/old"))
	})

	t.Run("list marks the default branch current", func(t *testing.T) {
		branches, err := backend.ListBranches(ctx)
		require.NoError(t, err)
		require.Len(t, branches, 3)
		for _, b := range branches {
			require.Equal(t, b.Name == "main", b.Current, b.Name)
		}
	})

	t.Run("create with unknown start point", func(t *testing.T) {
		err := backend.CreateBranch(ctx, "nope", "missing")
		require.ErrorIs(t, err, gserrors.ErrInvalidRef)
	})

	t.Run("safe delete refuses unmerged branch", func(t *testing.T) {
		ahead := config.AddCommit("feature work", nil, shas[2])
		config.SetBranch("ahead", ahead)

		err := backend.DeleteBranch(ctx, "ahead", false)
		require.ErrorIs(t, err, gserrors.ErrUnmergedChanges)
		require.NotEmpty(t, config.Ref("heads/ahead"))

		require.NoError(t, backend.DeleteBranch(ctx, "ahead", true))
		require.Empty(t, config.Ref("heads/ahead"))
	})

	t.Run("safe delete of merged branch", func(t *testing.T) {
		require.NoError(t, backend.DeleteBranch(ctx, "old", false))
		require.Empty(t, config.Ref("heads/old"))
	})

	t.Run("delete unknown branch", func(t *testing.T) {
		err := backend.DeleteBranch(ctx, "missing", true)
		require.ErrorIs(t, err, gserrors.ErrNotFound)
	})

	t.Run("checkout is unsupported", func(t *testing.T) {
		err := backend.Checkout(ctx, "feature")
		require.ErrorIs(t, err, gserrors.ErrUnsupported)
	})
}

func TestMerge(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(2)
	feature := config.AddCommit("feature", nil, shas[1])
	config.SetBranch("feature", feature)
	config.SetBranch("stale", shas[0])
	conflicting := config.AddCommit("conflicting", nil, shas[0])
	config.SetBranch("conflicting", conflicting)
	config.MergeConflicts[conflicting] = true
	backend := newBackend(t, config, githubpkg.Options{})

	msg, err := backend.Merge(ctx, "feature")
	require.NoError(t, err)
	require.Equal(t, "Merged feature into main", msg)
	head := config.Commit(config.Ref("heads/main"))
	require.Equal(t, []string{shas[1], feature}, head.Parents)

	msg, err = backend.Merge(ctx, "stale")
	require.NoError(t, err)
	require.Equal(t, "Already up to date", msg)

	_, err = backend.Merge(ctx, "conflicting")
	require.ErrorIs(t, err, gserrors.ErrMergeConflict)
	require.Equal(t, gserrors.KindConflict, gserrors.KindOf(err))
}

func TestTags(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(2)
	backend := newBackend(t, config, githubpkg.Options{})

	require.NoError(t, backend.CreateTag(ctx, "v1", repo.CreateTagOptions{Hash: shas[0]}))
	require.NoError(t, backend.CreateTag(ctx, "v2", repo.CreateTagOptions{Message: "release two\n\nlong body"}))

	tags, err := backend.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	require.Equal(t, "v2", tags[0].Name)
	require.True(t, tags[0].IsAnnotated)
	require.Equal(t, shas[1], tags[0].Hash)
	require.Equal(t, "release two", tags[0].Message)
	require.Equal(t, "Test User", tags[0].Tagger)

	require.Equal(t, "v1", tags[1].Name)
	require.False(t, tags[1].IsAnnotated)
	require.Equal(t, shas[0], tags[1].Hash)

	err = backend.CreateTag(ctx, "v1", repo.CreateTagOptions{})
	require.ErrorIs(t, err, gserrors.ErrValidation)

	require.NoError(t, backend.DeleteTag(ctx, "v1"))
	err = backend.DeleteTag(ctx, "v1")
	require.ErrorIs(t, err, gserrors.ErrNotFound)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(3)
	backend := newBackend(t, config, githubpkg.Options{})

	require.NoError(t, backend.Reset(ctx, shas[0], repo.ResetHard))
	require.Equal(t, shas[0], config.Ref("heads/main"))

	err := backend.Reset(ctx, shas[1], repo.ResetMode("bogus"))
	require.ErrorIs(t, err, gserrors.ErrValidation)

	err = backend.Reset(ctx, "0000000000", repo.ResetSoft)
	require.ErrorIs(t, err, gserrors.ErrCommitNotFound)
}

func TestCherryPick(t *testing.T) {
	ctx := context.Background()

	t.Run("applies onto the default branch", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		shas := config.AddLinearHistory(2)
		picked := config.AddCommit("fix the thing", nil, shas[0])
		backend := newBackend(t, config, githubpkg.Options{})

		require.NoError(t, backend.CherryPick(ctx, picked))

		head := config.Commit(config.Ref("heads/main"))
		require.Equal(t, "fix the thing", head.Message)
		require.Equal(t, []string{shas[1]}, head.Parents)
		for _, name := range config.RefNames() {
			require.False(t, strings.Contains(name, "cherry-pick"), name)
		}
	})

	t.Run("conflicting picks on a shared handle leave no temporary branches", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		shas := config.AddLinearHistory(2)
		first := config.AddCommit("clashes", nil, shas[0])
		second := config.AddCommit("clashes too", nil, shas[0])
		config.MergeConflicts[first] = true
		config.MergeConflicts[second] = true
		backend := newBackend(t, config, githubpkg.Options{})

		errFirst := backend.CherryPick(ctx, first)
		errSecond := backend.CherryPick(ctx, second)
		require.ErrorIs(t, errFirst, gserrors.ErrPickConflict)
		require.Contains(t, errFirst.Error(), "could not apply "+first[:7])
		require.ErrorIs(t, errSecond, gserrors.ErrPickConflict)

		require.NoError(t, backend.AbortCherryPick(ctx))
		require.NoError(t, backend.AbortCherryPick(ctx))

		require.Equal(t, shas[1], config.Ref("heads/main"))
		for _, name := range config.RefNames() {
			require.False(t, strings.HasPrefix(name, "heads/gitscope-cherry-pick-"), name)
		}
	})

	t.Run("concurrent conflicting picks leave no temporary branches", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		shas := config.AddLinearHistory(2)
		picks := []string{
			config.AddCommit("clash a", nil, shas[0]),
			config.AddCommit("clash b", nil, shas[0]),
		}
		for _, sha := range picks {
			config.MergeConflicts[sha] = true
		}
		backend := newBackend(t, config, githubpkg.Options{})

		errs := make([]error, len(picks))
		var wg sync.WaitGroup
		for i, sha := range picks {
			i, sha := i, sha
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = backend.CherryPick(ctx, sha)
			}()
		}
		wg.Wait()

		for _, err := range errs {
			require.ErrorIs(t, err, gserrors.ErrPickConflict)
		}
		for _, name := range config.RefNames() {
			require.False(t, strings.HasPrefix(name, "heads/gitscope-cherry-pick-"), name)
		}
	})

	t.Run("root commit is refused", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		shas := config.AddLinearHistory(2)
		backend := newBackend(t, config, githubpkg.Options{})

		require.Error(t, backend.CherryPick(ctx, shas[0]))
		require.Equal(t, shas[1], config.Ref("heads/main"))
	})
}

func TestUnsupportedOperations(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(1)
	backend := newBackend(t, config, githubpkg.Options{})

	checks := map[string]error{
		"revert":       backend.Revert(ctx, shas[0]),
		"abort revert": backend.AbortRevert(ctx),
		"stash save":   backend.StashSave(ctx, "wip", true),
		"stash apply":  backend.StashApply(ctx, 0),
		"stash pop":    backend.StashPop(ctx, 0),
		"stash drop":   backend.StashDrop(ctx, 0),
		"stash clear":  backend.StashClear(ctx),
	}
	_, listErr := backend.ListStashes(ctx)
	checks["stash list"] = listErr

	for name, err := range checks {
		require.ErrorIs(t, err, gserrors.ErrUnsupported, name)
		require.Equal(t, http.StatusNotImplemented, gserrors.StatusCode(err), name)
	}
}

func TestDiff(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(1)
	next := config.AddCommit("edit", []*gh.CommitFile{{
		Filename:  gh.String("a.txt"),
		Status:    gh.String("modified"),
		Additions: gh.Int(1),
		Deletions: gh.Int(1),
		Changes:   gh.Int(2),
		Patch:     gh.String("@@ -1 +1 @@\n-old\n+new\n"),
	}}, shas[0])
	config.SetBranch("main", next)
	backend := newBackend(t, config, githubpkg.Options{})

	result, err := backend.Diff(ctx, shas[0], "main")
	require.NoError(t, err)
	require.Equal(t, shas[0], result.From)
	require.Equal(t, "main", result.To)
	require.Equal(t, "diff --git a/a.txt b/a.txt\n--- a/a.txt\n+++ b/a.txt\n@@ -1 +1 @@\n-old\n+new\n", result.Diff)

	_, err = backend.Diff(ctx, "missing", "main")
	require.ErrorIs(t, err, gserrors.ErrInvalidRef)
}

func TestStatusAndOverview(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	shas := config.AddLinearHistory(1)
	backend := newBackend(t, config, githubpkg.Options{})

	status, err := backend.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, "main", status.Current)
	require.True(t, status.IsClean)
	require.NotNil(t, status.Staged)

	overview, err := backend.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, "owner/repo", overview.Path)
	require.Equal(t, "main", overview.DefaultBranch)
	require.Equal(t, shas[0], overview.HeadCommit)
	require.Len(t, overview.Remotes, 1)
	require.Equal(t, "https://github.com/owner/repo.git", overview.Remotes[0].FetchURL)
}

func TestListFiles(t *testing.T) {
	ctx := context.Background()
	config := testhelpers.NewMockGitHubServerConfig()
	config.AddLinearHistory(1)
	config.SetContents("", []*gh.RepositoryContent{
		{Name: gh.String("main.go"), Path: gh.String("main.go"), Type: gh.String("file")},
		{Name: gh.String("internal"), Path: gh.String("internal"), Type: gh.String("dir")},
		{Name: gh.String("LICENSE"), Path: gh.String("LICENSE"), Type: gh.String("file")},
	})
	backend := newBackend(t, config, githubpkg.Options{})

	entries, err := backend.ListFiles(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "internal", entries[0].Name)
	require.Equal(t, repo.EntryDir, entries[0].Type)
	require.Equal(t, "LICENSE", entries[1].Name)
	require.Equal(t, "main.go", entries[2].Name)

	_, err = backend.ListFiles(ctx, "nope", "")
	require.ErrorIs(t, err, gserrors.ErrNotFound)

	_, err = backend.ListFiles(ctx, "", "missing")
	require.ErrorIs(t, err, gserrors.ErrInvalidRef)
}

func TestPermissionErrors(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	config.AddLinearHistory(1)
	config.ErrorResponses["POST /repos/owner/repo/git/refs"] = http.StatusForbidden
	backend := newBackend(t, config, githubpkg.Options{})

	err := backend.CreateBranch(context.Background(), "feature", "")
	require.ErrorIs(t, err, gserrors.ErrPermission)
}
