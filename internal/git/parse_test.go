package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitscope.dev/gitscope/internal/repo"
)

func record(fields ...string) string {
	return strings.Join(fields, fieldSep) + recordSep + "\n"
}

func TestParseCommits(t *testing.T) {
	t.Run("parses root and merge commits", func(t *testing.T) {
		out := record("aaa", "a", "first", "", "Ann", "ann@example.com", "2024-01-01T10:00:00+00:00", "", "") +
			record("bbb", "b", "merge it", "multi\nline body\n", "Bob", "bob@example.com", "2024-01-02T10:00:00+00:00", "HEAD -> main, tag: v1", "p1 p2")

		commits, err := parseCommits(out)
		require.NoError(t, err)
		require.Len(t, commits, 2)

		assert.Equal(t, "aaa", commits[0].Hash)
		assert.Equal(t, []string{}, commits[0].ParentHashes)
		assert.True(t, commits[0].IsRoot())

		assert.Equal(t, "merge it", commits[1].Message)
		assert.Equal(t, "multi\nline body", commits[1].Body)
		assert.Equal(t, "HEAD -> main, tag: v1", commits[1].Refs)
		assert.Equal(t, []string{"p1", "p2"}, commits[1].ParentHashes)
		assert.True(t, commits[1].IsMerge())
	})

	t.Run("subject may contain pipes and separators used by other formats", func(t *testing.T) {
		out := record("c", "c", "fix: a | b <<SEP>> c", "", "N", "e", "d", "", "p")
		commits, err := parseCommits(out)
		require.NoError(t, err)
		assert.Equal(t, "fix: a | b <<SEP>> c", commits[0].Message)
	})

	t.Run("empty output", func(t *testing.T) {
		commits, err := parseCommits("")
		require.NoError(t, err)
		assert.Empty(t, commits)
	})

	t.Run("malformed record", func(t *testing.T) {
		_, err := parseCommits(record("only", "three", "fields"))
		require.Error(t, err)
	})
}

func TestParseNumstat(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []repo.FileChange
	}{
		{
			name:   "plain entries",
			output: "3\t1\ta.txt\x005\t0\tdir/b.txt\x00",
			want: []repo.FileChange{
				{File: "a.txt", Status: repo.StatusModified, Insertions: 3, Deletions: 1, Changes: 4},
				{File: "dir/b.txt", Status: repo.StatusModified, Insertions: 5, Changes: 5},
			},
		},
		{
			name:   "binary file",
			output: "-\t-\timage.png\x00",
			want: []repo.FileChange{
				{File: "image.png", Status: repo.StatusModified, Binary: true},
			},
		},
		{
			name:   "rename uses new path",
			output: "1\t1\t\x00old name.txt\x00new name.txt\x002\t0\tz.txt\x00",
			want: []repo.FileChange{
				{File: "new name.txt", Status: repo.StatusModified, Insertions: 1, Deletions: 1, Changes: 2},
				{File: "z.txt", Status: repo.StatusModified, Insertions: 2, Changes: 2},
			},
		},
		{
			name:   "empty",
			output: "",
			want:   []repo.FileChange{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNumstat(tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed counts", func(t *testing.T) {
		_, err := parseNumstat("x\t1\ta.txt\x00")
		require.Error(t, err)
	})
}

func TestParseNameStatus(t *testing.T) {
	out := "M\x00a.txt\x00A\x00new.txt\x00D\x00gone.txt\x00R087\x00old name.txt\x00new name.txt\x00C100\x00src.txt\x00copy.txt\x00T\x00link\x00"
	statuses, err := parseNameStatus(out)
	require.NoError(t, err)

	assert.Equal(t, map[string]repo.FileStatus{
		"a.txt":        repo.StatusModified,
		"new.txt":      repo.StatusAdded,
		"gone.txt":     repo.StatusDeleted,
		"new name.txt": repo.StatusRenamed,
		"copy.txt":     repo.StatusCopied,
		"link":         repo.StatusTypeChanged,
	}, statuses)
}

func TestMergeFileChanges(t *testing.T) {
	files, err := parseNumstat("1\t0\t\x00a.txt\x00b.txt\x00-\t-\tbin.dat\x00")
	require.NoError(t, err)
	statuses, err := parseNameStatus("R090\x00a.txt\x00b.txt\x00A\x00bin.dat\x00")
	require.NoError(t, err)

	merged := mergeFileChanges(files, statuses)
	require.Len(t, merged, 2)
	assert.Equal(t, repo.StatusRenamed, merged[0].Status)
	assert.Equal(t, "b.txt", merged[0].File)
	assert.Equal(t, repo.StatusAdded, merged[1].Status)

	stats := repo.SummarizeFiles(merged)
	assert.Equal(t, repo.DiffStats{Changed: 2, Insertions: 1, Deletions: 0}, stats)
}

func TestParseBranches(t *testing.T) {
	out := record("*", "main", "abc", "latest on main", "/repo") +
		record(" ", "feature/x", "def", "wip", "") +
		record(" ", "wt", "123", "elsewhere", "/other/worktree")

	branches, err := parseBranches(out)
	require.NoError(t, err)
	require.Len(t, branches, 3)

	assert.Equal(t, repo.BranchInfo{Name: "main", Current: true, Commit: "abc", Label: "latest on main"}, branches[0])
	assert.Equal(t, "feature/x", branches[1].Name)
	assert.False(t, branches[1].Current)
	assert.False(t, branches[1].LinkedWorkTree)
	assert.True(t, branches[2].LinkedWorkTree)
}

func TestParseTags(t *testing.T) {
	out := record("v2.0", "tagobj", "tag", "commit2", "Release 2", "2024-02-01T00:00:00+00:00", "Ann") +
		record("v1.0", "commit1", "commit", "", "commit subject\n", "2024-01-01T00:00:00+00:00", "")

	tags, err := parseTags(out)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	assert.Equal(t, repo.TagInfo{
		Name:        "v2.0",
		Hash:        "commit2",
		Message:     "Release 2",
		Date:        "2024-02-01T00:00:00+00:00",
		Tagger:      "Ann",
		IsAnnotated: true,
	}, tags[0])

	assert.Equal(t, "commit1", tags[1].Hash)
	assert.False(t, tags[1].IsAnnotated)
	assert.Empty(t, tags[1].Message)
}

func TestParseStashes(t *testing.T) {
	out := record("stash@{0}", "h0", "On main: second", "2024-01-02T00:00:00+00:00") +
		record("stash@{1}", "h1", "WIP on main: abc first", "2024-01-01T00:00:00+00:00")

	entries, err := parseStashes(out)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, "On main: second", entries[0].Message)
	assert.Equal(t, 1, entries[1].Index)

	_, err = parseStashRef("stash@{x}")
	require.Error(t, err)
	_, err = parseStashRef("refs/stash")
	require.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	t.Run("clean branch with upstream", func(t *testing.T) {
		out := "# branch.oid abc\x00# branch.head main\x00# branch.upstream origin/main\x00# branch.ab +2 -1\x00"
		status, err := parseStatus(out)
		require.NoError(t, err)
		assert.Equal(t, "main", status.Current)
		assert.Equal(t, "origin/main", status.Tracking)
		assert.Equal(t, 2, status.Ahead)
		assert.Equal(t, 1, status.Behind)
		assert.True(t, status.IsClean)
		assert.NotNil(t, status.Staged)
		assert.NotNil(t, status.Conflicted)
	})

	t.Run("all change kinds", func(t *testing.T) {
		out := strings.Join([]string{
			"# branch.oid abc",
			"# branch.head feature",
			"1 M. N... 100644 100644 100644 h1 h2 staged.txt",
			"1 .M N... 100644 100644 100644 h1 h1 file with spaces.txt",
			"1 .D N... 100644 100644 000000 h1 h1 removed.txt",
			"1 MM N... 100644 100644 100644 h1 h2 both.txt",
			"2 R. N... 100644 100644 100644 h1 h1 R100 renamed.txt",
			"orig.txt",
			"u UU N... 100644 100644 100644 100644 h1 h2 h3 conflict.txt",
			"? untracked.txt",
			"! ignored.log",
		}, nul) + nul

		status, err := parseStatus(out)
		require.NoError(t, err)
		assert.Equal(t, "feature", status.Current)
		assert.Equal(t, []string{"staged.txt", "both.txt", "renamed.txt"}, status.Staged)
		assert.Equal(t, []string{"file with spaces.txt", "both.txt"}, status.Modified)
		assert.Equal(t, []string{"removed.txt"}, status.Deleted)
		assert.Equal(t, []string{"untracked.txt"}, status.Untracked)
		assert.Equal(t, []string{"conflict.txt"}, status.Conflicted)
		assert.False(t, status.IsClean)
	})

	t.Run("detached head", func(t *testing.T) {
		status, err := parseStatus("# branch.oid abc\x00# branch.head (detached)\x00")
		require.NoError(t, err)
		assert.Empty(t, status.Current)
	})
}
