package github

import (
	"context"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// pageSize is the largest page the commits endpoint serves
const pageSize = 100

func filtered(opts repo.ListCommitsOptions) bool {
	return opts.Search != "" || opts.Author != ""
}

// ListCommits returns one page of history, newest first. Filtered history is
// matched client-side over at most MaxScan commits.
func (b *Backend) ListCommits(ctx context.Context, opts repo.ListCommitsOptions) ([]repo.CommitInfo, error) {
	if opts.MaxCount <= 0 {
		return []repo.CommitInfo{}, nil
	}
	skip := max(opts.Skip, 0)

	commits := []repo.CommitInfo{}
	matched := 0
	err := b.scanCommits(ctx, opts.Branch, skipFor(opts, skip), func(c *github.RepositoryCommit) bool {
		if filtered(opts) {
			if !matches(c, opts) {
				return true
			}
			matched++
			if matched <= skip {
				return true
			}
		}
		commits = append(commits, toCommitInfo(c))
		return len(commits) < opts.MaxCount
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// skipFor returns how many commits the scan may skip server-side. Filtered
// scans must see every commit to count matches.
func skipFor(opts repo.ListCommitsOptions, skip int) int {
	if filtered(opts) {
		return 0
	}
	return skip
}

// CountCommits returns the number of commits matching the filters. Unfiltered
// counts read the last page number of a one-per-page listing.
func (b *Backend) CountCommits(ctx context.Context, opts repo.ListCommitsOptions) (int, error) {
	if filtered(opts) {
		count := 0
		err := b.scanCommits(ctx, opts.Branch, 0, func(c *github.RepositoryCommit) bool {
			if matches(c, opts) {
				count++
			}
			return true
		})
		return count, err
	}

	commits, resp, err := b.client.Repositories.ListCommits(ctx, b.owner, b.name, &github.CommitsListOptions{
		SHA:         opts.Branch,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		if isEmptyRepository(resp, err) {
			return 0, nil
		}
		return 0, wrapError("count commits", resp, err, b.branchNotFound(opts.Branch))
	}
	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(commits), nil
}

// scanCommits walks history from branch (default branch when empty), starting
// after skip commits, calling fn until it returns false or maxScan commits
// have been visited.
func (b *Backend) scanCommits(ctx context.Context, branch string, skip int, fn func(*github.RepositoryCommit) bool) error {
	page := skip/pageSize + 1
	offset := skip % pageSize
	visited := 0

	for {
		commits, resp, err := b.client.Repositories.ListCommits(ctx, b.owner, b.name, &github.CommitsListOptions{
			SHA:         branch,
			ListOptions: github.ListOptions{Page: page, PerPage: pageSize},
		})
		if err != nil {
			if isEmptyRepository(resp, err) {
				return nil
			}
			return wrapError("list commits", resp, err, b.branchNotFound(branch))
		}
		for _, c := range commits[min(offset, len(commits)):] {
			if !fn(c) {
				return nil
			}
			visited++
			if visited >= b.maxScan {
				return nil
			}
		}
		offset = 0
		if resp.NextPage == 0 {
			return nil
		}
		page = resp.NextPage
	}
}

func (b *Backend) branchNotFound(branch string) func() error {
	return func() error {
		if branch == "" {
			return b.repoNotFound()
		}
		return gserrors.NewInvalidRefError(branch, "unknown revision '"+branch+"'")
	}
}

// matches applies the search (subject) and author (name, email or login) filters
func matches(c *github.RepositoryCommit, opts repo.ListCommitsOptions) bool {
	if opts.Search != "" {
		subject, _ := splitMessage(c.GetCommit().GetMessage())
		if !containsFold(subject, opts.Search) {
			return false
		}
	}
	if opts.Author != "" {
		author := c.GetCommit().GetAuthor()
		if !containsFold(author.GetName(), opts.Author) &&
			!containsFold(author.GetEmail(), opts.Author) &&
			!containsFold(c.GetAuthor().GetLogin(), opts.Author) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// splitMessage splits a commit message into subject and body
func splitMessage(message string) (subject, body string) {
	subject, body, _ = strings.Cut(message, "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}

func abbreviate(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func formatTime(ts github.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.RFC3339)
}

func toCommitInfo(c *github.RepositoryCommit) repo.CommitInfo {
	commit := c.GetCommit()
	subject, body := splitMessage(commit.GetMessage())
	parents := make([]string, 0, len(c.Parents))
	for _, p := range c.Parents {
		parents = append(parents, p.GetSHA())
	}
	return repo.CommitInfo{
		Hash:            c.GetSHA(),
		AbbreviatedHash: abbreviate(c.GetSHA()),
		Message:         subject,
		Body:            body,
		AuthorName:      commit.GetAuthor().GetName(),
		AuthorEmail:     commit.GetAuthor().GetEmail(),
		Date:            formatTime(commit.GetAuthor().GetDate()),
		ParentHashes:    parents,
	}
}

// CommitDetail returns a commit with its per-file changes and a unified diff
// reconstructed from the file patches.
func (b *Backend) CommitDetail(ctx context.Context, hash string) (*repo.CommitDetail, error) {
	c, resp, err := b.client.Repositories.GetCommit(ctx, b.owner, b.name, hash, nil)
	if err != nil {
		return nil, wrapError("get commit", resp, err, func() error {
			return gserrors.NewCommitNotFoundError(hash)
		})
	}
	files := toFileChanges(c.Files)
	return &repo.CommitDetail{
		CommitInfo: toCommitInfo(c),
		Diff:       buildDiff(c.Files),
		Stats:      repo.SummarizeFiles(files),
		Files:      files,
	}, nil
}
