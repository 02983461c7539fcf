package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitscope.dev/gitscope/internal/repo"
)

// historyArgs builds the revision and filter arguments shared by log and rev-list.
// --grep matches the whole message, so callers that search narrow the result
// to subject matches with subjectMatches.
func historyArgs(opts repo.ListCommitsOptions, rev string) []string {
	var args []string
	if opts.Search != "" || opts.Author != "" {
		args = append(args, "--regexp-ignore-case", "--fixed-strings")
	}
	if opts.Search != "" {
		args = append(args, "--grep="+opts.Search)
	}
	if opts.Author != "" {
		args = append(args, "--author="+opts.Author)
	}
	return append(args, rev, "--")
}

// subjectMatches reports whether the commit subject contains search, ignoring case
func subjectMatches(c repo.CommitInfo, search string) bool {
	return strings.Contains(strings.ToLower(c.Message), strings.ToLower(search))
}

// historyRev resolves the revision history starts from. ok is false when the
// repository has no commits yet and no branch was requested.
func (b *Backend) historyRev(ctx context.Context, branch string) (rev string, ok bool, err error) {
	if branch == "" {
		if !b.hasCommits(ctx) {
			return "", false, nil
		}
		return "HEAD", true, nil
	}
	if _, err := b.resolveRef(ctx, branch); err != nil {
		return "", false, err
	}
	return branch, true, nil
}

// ListCommits returns one page of history, newest first
func (b *Backend) ListCommits(ctx context.Context, opts repo.ListCommitsOptions) ([]repo.CommitInfo, error) {
	if opts.Search != "" {
		matched, err := b.searchCommits(ctx, opts)
		if err != nil {
			return nil, err
		}
		return pageOf(matched, opts.Skip, opts.MaxCount), nil
	}

	args := []string{}
	if opts.MaxCount > 0 {
		args = append(args, fmt.Sprintf("--max-count=%d", opts.MaxCount))
	}
	if opts.Skip > 0 {
		args = append(args, fmt.Sprintf("--skip=%d", opts.Skip))
	}
	return b.logCommits(ctx, opts, args...)
}

// CountCommits returns the number of commits matching the filters, ignoring pagination
func (b *Backend) CountCommits(ctx context.Context, opts repo.ListCommitsOptions) (int, error) {
	if opts.Search != "" {
		matched, err := b.searchCommits(ctx, opts)
		if err != nil {
			return 0, err
		}
		return len(matched), nil
	}

	rev, ok, err := b.historyRev(ctx, opts.Branch)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	args := append([]string{"rev-list", "--count"}, historyArgs(opts, rev)...)
	out, err := b.runner.Run(ctx, args...)
	if err != nil {
		if isUnbornHead(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count commits: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", out, err)
	}
	return n, nil
}

// searchCommits lists every commit whose subject contains opts.Search
func (b *Backend) searchCommits(ctx context.Context, opts repo.ListCommitsOptions) ([]repo.CommitInfo, error) {
	candidates, err := b.logCommits(ctx, opts)
	if err != nil {
		return nil, err
	}
	matched := make([]repo.CommitInfo, 0, len(candidates))
	for _, c := range candidates {
		if subjectMatches(c, opts.Search) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (b *Backend) logCommits(ctx context.Context, opts repo.ListCommitsOptions, extra ...string) ([]repo.CommitInfo, error) {
	rev, ok, err := b.historyRev(ctx, opts.Branch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []repo.CommitInfo{}, nil
	}

	args := append([]string{"log", commitFormat, "--no-color"}, extra...)
	args = append(args, historyArgs(opts, rev)...)

	out, err := b.runner.RunRaw(ctx, args...)
	if err != nil {
		if isUnbornHead(err) {
			return []repo.CommitInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	return parseCommits(out)
}

// pageOf returns commits[skip:skip+limit]; a non-positive limit means no limit
func pageOf(commits []repo.CommitInfo, skip, limit int) []repo.CommitInfo {
	if skip >= len(commits) {
		return []repo.CommitInfo{}
	}
	commits = commits[skip:]
	if limit > 0 && limit < len(commits) {
		commits = commits[:limit]
	}
	return commits
}

// CommitDetail returns a commit with its diff against the first parent.
// Root commits are diffed against the empty tree.
func (b *Backend) CommitDetail(ctx context.Context, hash string) (*repo.CommitDetail, error) {
	full, err := b.resolveCommit(ctx, hash)
	if err != nil {
		return nil, err
	}

	out, err := b.runner.RunRaw(ctx, "show", "-s", "--no-color", commitFormat, full)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	commits, err := parseCommits(out)
	if err != nil {
		return nil, err
	}
	if len(commits) != 1 {
		return nil, fmt.Errorf("expected one commit for %s, got %d", hash, len(commits))
	}
	info := commits[0]

	base, err := b.diffBase(ctx, info)
	if err != nil {
		return nil, err
	}
	diff, files, err := b.diffWithFiles(ctx, base, full)
	if err != nil {
		return nil, err
	}

	return &repo.CommitDetail{
		CommitInfo: info,
		Diff:       diff,
		Stats:      repo.SummarizeFiles(files),
		Files:      files,
	}, nil
}

// diffBase returns the first parent of a commit, or the empty tree for a root commit
func (b *Backend) diffBase(ctx context.Context, info repo.CommitInfo) (string, error) {
	if !info.IsRoot() {
		return info.ParentHashes[0], nil
	}
	emptyTree, err := b.runner.Run(ctx, "hash-object", "-t", "tree", "--stdin")
	if err != nil {
		return "", fmt.Errorf("failed to compute empty tree: %w", err)
	}
	return emptyTree, nil
}

// diffWithFiles returns the unified diff between two revisions together with
// per-file stats. numstat and name-status are read in separate passes and
// joined on the new path so renames keep both their counts and status.
func (b *Backend) diffWithFiles(ctx context.Context, from, to string) (string, []repo.FileChange, error) {
	diff, err := b.runner.RunRaw(ctx, "diff", "--no-color", "--no-ext-diff", "-M", from, to)
	if err != nil {
		return "", nil, fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}
	numstat, err := b.runner.RunRaw(ctx, "diff", "--numstat", "-z", "-M", from, to)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read numstat for %s..%s: %w", from, to, err)
	}
	nameStatus, err := b.runner.RunRaw(ctx, "diff", "--name-status", "-z", "-M", from, to)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read name-status for %s..%s: %w", from, to, err)
	}

	files, err := parseNumstat(numstat)
	if err != nil {
		return "", nil, err
	}
	statuses, err := parseNameStatus(nameStatus)
	if err != nil {
		return "", nil, err
	}
	return diff, mergeFileChanges(files, statuses), nil
}
