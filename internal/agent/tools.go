package agent

import (
	"context"
	"encoding/json"

	"gitscope.dev/gitscope/internal/repo"
)

// OverviewResult is returned by getRepoOverview
type OverviewResult struct {
	Path          string        `json:"path"`
	CurrentBranch string        `json:"currentBranch"`
	DefaultBranch string        `json:"defaultBranch"`
	Remotes       []repo.Remote `json:"remotes"`
	IsClean       bool          `json:"isClean"`
	HeadCommit    string        `json:"headCommit"`
	Staged        int           `json:"staged"`
	Modified      int           `json:"modified"`
	Untracked     int           `json:"untracked"`
}

// CommitSummary is one commit in a getCommitHistory result
type CommitSummary struct {
	Hash     string `json:"hash"`
	FullHash string `json:"fullHash"`
	Message  string `json:"message"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Refs     string `json:"refs,omitempty"`
}

// HistoryResult is returned by getCommitHistory
type HistoryResult struct {
	Total   int             `json:"total"`
	Count   int             `json:"count"`
	Commits []CommitSummary `json:"commits"`
}

// FileSummary is one file of a getCommitDetails result
type FileSummary struct {
	File       string          `json:"file"`
	Status     repo.FileStatus `json:"status"`
	Insertions int             `json:"insertions"`
	Deletions  int             `json:"deletions"`
}

// DetailResult is returned by getCommitDetails
type DetailResult struct {
	Hash         string         `json:"hash"`
	FullHash     string         `json:"fullHash"`
	Message      string         `json:"message"`
	Body         string         `json:"body,omitempty"`
	Author       string         `json:"author"`
	Date         string         `json:"date"`
	ParentHashes []string       `json:"parentHashes"`
	Stats        repo.DiffStats `json:"stats"`
	Files        []FileSummary  `json:"files"`
	Diff         string         `json:"diff"`
}

// BranchSummary is one branch of a listBranches result
type BranchSummary struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
	Commit  string `json:"commit"`
}

// BranchesResult is returned by listBranches
type BranchesResult struct {
	Current  string          `json:"current"`
	Branches []BranchSummary `json:"branches"`
}

// CompareResult is returned by compareDiff
type CompareResult struct {
	From       string `json:"from"`
	To         string `json:"to"`
	DiffLength int    `json:"diffLength"`
	Diff       string `json:"diff"`
}

// TagSummary is one tag of a listTags result
type TagSummary struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// TagsResult is returned by listTags. Count is the number of tags before the cap.
type TagsResult struct {
	Count int          `json:"count"`
	Tags  []TagSummary `json:"tags"`
}

// FilesResult is returned by listFiles. On failure only Ref, Directory and
// Error are set.
type FilesResult struct {
	Ref       string           `json:"ref"`
	Directory string           `json:"directory"`
	Count     int              `json:"count,omitempty"`
	Files     []repo.TreeEntry `json:"files,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type historyArgs struct {
	Branch   string `json:"branch"`
	MaxCount *int   `json:"maxCount" validate:"omitempty,min=1"`
}

type detailArgs struct {
	Hash string `json:"hash" validate:"required"`
}

type compareArgs struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type filesArgs struct {
	Directory string `json:"directory"`
	Ref       string `json:"ref"`
}

type noArgs struct{}

func (ts *Toolset) define() []Tool {
	return []Tool{
		{
			Name: "getRepoOverview",
			Description: "Get an overview of the repository including default branch, remotes, and status. " +
				"Always call this first to understand the repo context.",
			Parameters: objectSchema(nil),
			run:        ts.repoOverview,
		},
		{
			Name: "getCommitHistory",
			Description: "List commits, newest first. Supports filtering by branch. Returns commit hash, message, " +
				"author, date. Use maxCount to limit results.",
			Parameters: objectSchema(map[string]Property{
				"branch": {Type: "string", Description: "Branch name to get commits from. Defaults to the current or default branch."},
				"maxCount": {
					Type:        "integer",
					Description: "Maximum number of commits to return.",
					Default:     ts.limits.DefaultCommits,
					Minimum:     intPtr(1),
					Maximum:     intPtr(ts.limits.MaxCommits),
				},
			}),
			run: ts.commitHistory,
		},
		{
			Name: "getCommitDetails",
			Description: "Get full details of a specific commit including the diff and per-file insertions/deletions. " +
				"Use this to understand what a specific commit changed.",
			Parameters: objectSchema(map[string]Property{
				"hash": {Type: "string", Description: "The commit hash (full or abbreviated) to examine."},
			}, "hash"),
			run: ts.commitDetails,
		},
		{
			Name:        "listBranches",
			Description: "List all branches with their latest commit. Shows which branch is current.",
			Parameters:  objectSchema(nil),
			run:         ts.listBranches,
		},
		{
			Name: "compareDiff",
			Description: "Get the diff between two refs (branches, commits, or tags). " +
				"Use this to understand what changed between two points in history.",
			Parameters: objectSchema(map[string]Property{
				"from": {Type: "string", Description: "The ref to compare from."},
				"to":   {Type: "string", Description: "The ref to compare to."},
			}, "from", "to"),
			run: ts.compareDiff,
		},
		{
			Name:        "listTags",
			Description: "List tags in the repository with their hash, newest first.",
			Parameters:  objectSchema(nil),
			run:         ts.listTags,
		},
		{
			Name: "listFiles",
			Description: "List the entries of one directory at a given ref. " +
				"Useful for exploring the repo structure.",
			Parameters: objectSchema(map[string]Property{
				"directory": {Type: "string", Description: "Subdirectory to list (empty for root).", Default: ""},
				"ref":       {Type: "string", Description: "Ref to list files at (default: HEAD or the default branch)."},
			}),
			run: ts.listFiles,
		},
	}
}

func (ts *Toolset) repoOverview(ctx context.Context, args json.RawMessage) (any, error) {
	if err := decodeArgs(args, &noArgs{}); err != nil {
		return nil, err
	}
	ov, err := ts.svc.Inspect.Overview(ctx, ts.backend)
	if err != nil {
		return nil, err
	}
	status, err := ts.svc.Inspect.Status(ctx, ts.backend)
	if err != nil {
		return nil, err
	}
	return OverviewResult{
		Path:          ov.Path,
		CurrentBranch: ov.CurrentBranch,
		DefaultBranch: ov.DefaultBranch,
		Remotes:       ov.Remotes,
		IsClean:       status.IsClean,
		HeadCommit:    ov.HeadCommit,
		Staged:        len(status.Staged),
		Modified:      len(status.Modified),
		Untracked:     len(status.Untracked),
	}, nil
}

func (ts *Toolset) commitHistory(ctx context.Context, args json.RawMessage) (any, error) {
	var a historyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	count := ts.limits.DefaultCommits
	if a.MaxCount != nil {
		count = min(*a.MaxCount, ts.limits.MaxCommits)
	}

	page, err := ts.svc.History.ListCommits(ctx, ts.backend, repo.ListCommitsOptions{
		Branch:   a.Branch,
		MaxCount: count,
	})
	if err != nil {
		return nil, err
	}

	out := HistoryResult{
		Total:   page.Total,
		Count:   len(page.Commits),
		Commits: make([]CommitSummary, 0, len(page.Commits)),
	}
	for _, c := range page.Commits {
		out.Commits = append(out.Commits, CommitSummary{
			Hash:     c.AbbreviatedHash,
			FullHash: c.Hash,
			Message:  c.Message,
			Author:   c.AuthorName,
			Date:     c.Date,
			Refs:     c.Refs,
		})
	}
	return out, nil
}

func (ts *Toolset) commitDetails(ctx context.Context, args json.RawMessage) (any, error) {
	var a detailArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	d, err := ts.svc.History.CommitDetail(ctx, ts.backend, a.Hash)
	if err != nil {
		return nil, err
	}

	files := make([]FileSummary, 0, len(d.Files))
	for _, f := range d.Files {
		files = append(files, FileSummary{File: f.File, Status: f.Status, Insertions: f.Insertions, Deletions: f.Deletions})
	}
	return DetailResult{
		Hash:         d.AbbreviatedHash,
		FullHash:     d.Hash,
		Message:      d.Message,
		Body:         d.Body,
		Author:       d.AuthorName + " <" + d.AuthorEmail + ">",
		Date:         d.Date,
		ParentHashes: d.ParentHashes,
		Stats:        d.Stats,
		Files:        files,
		Diff:         truncateDiff(d.Diff, ts.limits.MaxDiffChars),
	}, nil
}

func (ts *Toolset) listBranches(ctx context.Context, args json.RawMessage) (any, error) {
	if err := decodeArgs(args, &noArgs{}); err != nil {
		return nil, err
	}
	branches, err := ts.svc.Refs.ListBranches(ctx, ts.backend)
	if err != nil {
		return nil, err
	}

	out := BranchesResult{Current: "unknown", Branches: make([]BranchSummary, 0, len(branches))}
	for _, b := range branches {
		if b.Current {
			out.Current = b.Name
		}
		out.Branches = append(out.Branches, BranchSummary{Name: b.Name, Current: b.Current, Commit: b.Commit})
	}
	return out, nil
}

func (ts *Toolset) compareDiff(ctx context.Context, args json.RawMessage) (any, error) {
	var a compareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	d, err := ts.svc.Inspect.Diff(ctx, ts.backend, a.From, a.To)
	if err != nil {
		return nil, err
	}
	return CompareResult{
		From:       d.From,
		To:         d.To,
		DiffLength: len([]rune(d.Diff)),
		Diff:       truncateDiff(d.Diff, ts.limits.MaxDiffChars),
	}, nil
}

func (ts *Toolset) listTags(ctx context.Context, args json.RawMessage) (any, error) {
	if err := decodeArgs(args, &noArgs{}); err != nil {
		return nil, err
	}
	tags, err := ts.svc.Refs.ListTags(ctx, ts.backend)
	if err != nil {
		return nil, err
	}

	shown := tags[:min(len(tags), ts.limits.MaxTags)]
	out := TagsResult{Count: len(tags), Tags: make([]TagSummary, 0, len(shown))}
	for _, t := range shown {
		out.Tags = append(out.Tags, TagSummary{Name: t.Name, Hash: t.Hash})
	}
	return out, nil
}

// listFiles reports failures in its result so one bad call does not end an
// agent's multi-step plan. Malformed arguments are still an error.
func (ts *Toolset) listFiles(ctx context.Context, args json.RawMessage) (any, error) {
	var a filesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	out := FilesResult{Ref: a.Ref, Directory: a.Directory}
	if out.Ref == "" {
		out.Ref = "HEAD"
	}
	if out.Directory == "" {
		out.Directory = "/"
	}

	entries, err := ts.svc.Inspect.ListFiles(ctx, ts.backend, a.Directory, a.Ref)
	if err != nil {
		out.Error = "Failed to list files. Check that the ref and directory are valid: " + err.Error()
		return out, nil
	}
	out.Count = len(entries)
	out.Files = entries[:min(len(entries), ts.limits.MaxFiles)]
	return out, nil
}
