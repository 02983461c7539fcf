package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitscope.dev/gitscope/internal/ops"
	"gitscope.dev/gitscope/internal/repo"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestPrintStructured(t *testing.T) {
	result := repo.Succeeded("Created branch 'feature'")

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(result))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, true, decoded["success"])
		assert.NotContains(t, decoded, "Err")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(result))
		assert.Equal(t, "success: true\nmessage: Created branch 'feature'\n", buf.String())
	})
}

func TestPrintText(t *testing.T) {
	render := func(v any) string {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatText, false).Print(v))
		return buf.String()
	}

	t.Run("commit page", func(t *testing.T) {
		out := render(&repo.CommitPage{
			Commits: []repo.CommitInfo{{AbbreviatedHash: "abc1234", Message: "Fix parser", AuthorName: "Ada", Date: "2024-01-02", Refs: "HEAD -> main"}},
			Total:   9,
		})
		assert.Contains(t, out, "abc1234 Fix parser (HEAD -> main) Ada, 2024-01-02")
		assert.Contains(t, out, "Showing 1 of 9 commit(s)")
	})

	t.Run("branches", func(t *testing.T) {
		out := render([]repo.BranchInfo{
			{Name: "main", Current: true, Commit: "0123456789", Label: "init"},
			{Name: "feature", Commit: "abcdef0123", Label: "wip", LinkedWorkTree: true},
		})
		assert.Equal(t, "* main    0123456 init\n  feature abcdef0 wip (worktree)\n", out)
	})

	t.Run("clean status", func(t *testing.T) {
		s := repo.NewStatusInfo()
		s.Current = "main"
		assert.Equal(t, "On branch main\nnothing to commit, working tree clean\n", render(&s))
	})

	t.Run("dirty status", func(t *testing.T) {
		s := repo.NewStatusInfo()
		s.Current = "main"
		s.Untracked = []string{"new.txt"}
		s.Finalize()
		out := render(&s)
		assert.Contains(t, out, "Untracked:\n  new.txt\n")
		assert.NotContains(t, out, "Staged:")
	})

	t.Run("commit detail", func(t *testing.T) {
		d := &repo.CommitDetail{
			CommitInfo: repo.CommitInfo{Hash: "abc", Message: "Add", Body: "longer text", AuthorName: "Ada", AuthorEmail: "ada@example.com"},
			Files:      []repo.FileChange{{File: "a.go", Status: repo.StatusAdded, Insertions: 3}, {File: "img.png", Status: repo.StatusAdded, Binary: true}},
			Stats:      repo.DiffStats{Changed: 2, Insertions: 3},
			Diff:       "diff --git a/a.go b/a.go",
		}
		out := render(d)
		assert.Contains(t, out, "Author: Ada <ada@example.com>")
		assert.Contains(t, out, "    longer text\n")
		assert.Contains(t, out, " A a.go +3 -0\n")
		assert.Contains(t, out, " A img.png binary\n")
		assert.Contains(t, out, " 2 file(s) changed, 3 insertion(s)(+), 0 deletion(s)(-)\n")
		assert.Contains(t, out, "diff --git a/a.go b/a.go\n")
	})

	t.Run("tree", func(t *testing.T) {
		out := render([]repo.TreeEntry{{Name: "src", Type: repo.EntryDir}, {Name: "README.md", Type: repo.EntryFile}})
		assert.Equal(t, "src/\nREADME.md\n", out)
	})

	t.Run("failed result", func(t *testing.T) {
		assert.Equal(t, "✗ branch 'x' not found\n", render(repo.Failed(errors.New("branch 'x' not found"), "")))
	})

	t.Run("fallback", func(t *testing.T) {
		assert.Equal(t, "valid: true\n", render(map[string]bool{"valid": true}))
	})
}

func TestHighlightDiff(t *testing.T) {
	diff := "--- a/f.txt\n+++ b/f.txt\n@@ -1 +1 @@\n-old\n+new\n"
	out := HighlightDiff(diff)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "new")
	assert.Empty(t, HighlightDiff(""))
}

func TestSimpleBatchProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewBatchProgress(nil, &buf, false)

	p.Start("cherry-pick", []string{"1111111aaaa", "2222222bbbb"})
	p.Step(ops.Step{Operation: "cherry-pick", Index: 0, Total: 2, Hash: "1111111aaaa"})
	p.Step(ops.Step{Operation: "cherry-pick", Index: 0, Total: 2, Hash: "1111111aaaa", Done: true})
	p.Step(ops.Step{Operation: "cherry-pick", Index: 1, Total: 2, Hash: "2222222bbbb", Done: true, Err: errors.New("conflict")})
	p.Complete(repo.Failed(errors.New("conflict"), "Cherry-pick failed"))

	out := buf.String()
	assert.Contains(t, out, "[1/2] ⋯ cherry-pick 1111111...")
	assert.Contains(t, out, "[1/2] ✓ 1111111")
	assert.Contains(t, out, "[2/2] ✗ 2222222 failed: conflict")
	assert.Contains(t, out, "✗ conflict\n")
}

func TestBatchModel(t *testing.T) {
	m := newBatchModel("revert", []string{"aaaaaaa1", "bbbbbbb2"})
	assert.NotNil(t, m.Init())

	_, cmd := m.Update(stepMsg(ops.Step{Index: 0, Total: 2, Hash: "aaaaaaa1", Done: true}))
	assert.Nil(t, cmd)
	_, _ = m.Update(stepMsg(ops.Step{Index: 1, Total: 2, Hash: "bbbbbbb2"}))
	_, _ = m.Update(stepMsg(ops.Step{Index: 7}))

	view := m.View()
	assert.Contains(t, view, "✓ aaaaaaa applied")
	assert.Contains(t, view, "bbbbbbb revert...")

	_, cmd = m.Update(batchDoneMsg{result: repo.Succeeded("Reverted 2 commit(s) successfully")})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "✓ Reverted 2 commit(s) successfully")
}
