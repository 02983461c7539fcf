package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"

	"gitscope.dev/gitscope/internal/repo"
)

// fileStatus maps the API's file status words to single-letter statuses
func fileStatus(status string) repo.FileStatus {
	switch status {
	case "added":
		return repo.StatusAdded
	case "removed":
		return repo.StatusDeleted
	case "modified", "changed":
		return repo.StatusModified
	case "renamed":
		return repo.StatusRenamed
	case "copied":
		return repo.StatusCopied
	default:
		return repo.StatusUnknown
	}
}

// isBinary reports whether the API omitted the patch for a changed file with no line counts
func isBinary(f *github.CommitFile) bool {
	if f.GetPatch() != "" || f.GetAdditions() != 0 || f.GetDeletions() != 0 {
		return false
	}
	// a pure rename has no patch and no counts but is not binary
	return f.GetStatus() != "renamed" || f.GetChanges() != 0
}

func toFileChanges(files []*github.CommitFile) []repo.FileChange {
	out := make([]repo.FileChange, 0, len(files))
	for _, f := range files {
		fc := repo.FileChange{
			File:   f.GetFilename(),
			Status: fileStatus(f.GetStatus()),
			Binary: isBinary(f),
		}
		if !fc.Binary {
			fc.Insertions = f.GetAdditions()
			fc.Deletions = f.GetDeletions()
			fc.Changes = f.GetChanges()
		}
		out = append(out, fc)
	}
	return out
}

// buildDiff reconstructs unified diff text with git-style headers from per-file patches
func buildDiff(files []*github.CommitFile) string {
	var sb strings.Builder
	for _, f := range files {
		newPath := f.GetFilename()
		oldPath := newPath
		if prev := f.GetPreviousFilename(); prev != "" {
			oldPath = prev
		}

		fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", oldPath, newPath)
		from, to := "a/"+oldPath, "b/"+newPath
		switch f.GetStatus() {
		case "added":
			sb.WriteString("new file mode 100644\n")
			from = "/dev/null"
		case "removed":
			sb.WriteString("deleted file mode 100644\n")
			to = "/dev/null"
		case "renamed":
			fmt.Fprintf(&sb, "rename from %s\nrename to %s\n", oldPath, newPath)
		}

		if isBinary(f) {
			fmt.Fprintf(&sb, "Binary files %s and %s differ\n", from, to)
			continue
		}
		patch := f.GetPatch()
		if patch == "" {
			continue
		}
		fmt.Fprintf(&sb, "--- %s\n+++ %s\n", from, to)
		sb.WriteString(patch)
		if !strings.HasSuffix(patch, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Diff returns the diff between two refs using the compare endpoint
func (b *Backend) Diff(ctx context.Context, from, to string) (*repo.DiffResult, error) {
	if _, err := b.resolveRef(ctx, from); err != nil {
		return nil, err
	}
	if _, err := b.resolveRef(ctx, to); err != nil {
		return nil, err
	}
	cmp, resp, err := b.client.Repositories.CompareCommits(ctx, b.owner, b.name, from, to, nil)
	if err != nil {
		return nil, wrapError("compare commits", resp, err, nil)
	}
	return &repo.DiffResult{Diff: buildDiff(cmp.Files), From: from, To: to}, nil
}
