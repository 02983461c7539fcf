// Package repo defines the provider-agnostic repository data model and the
// Backend capability interface shared by the local and GitHub implementations.
package repo

// CommitInfo describes a single commit
type CommitInfo struct {
	Hash            string   `json:"hash" yaml:"hash"`
	AbbreviatedHash string   `json:"abbreviatedHash" yaml:"abbreviatedHash"`
	Message         string   `json:"message" yaml:"message"`
	Body            string   `json:"body" yaml:"body"`
	AuthorName      string   `json:"authorName" yaml:"authorName"`
	AuthorEmail     string   `json:"authorEmail" yaml:"authorEmail"`
	Date            string   `json:"date" yaml:"date"`
	Refs            string   `json:"refs" yaml:"refs"`
	ParentHashes    []string `json:"parentHashes" yaml:"parentHashes"`
}

// IsMerge reports whether the commit has more than one parent
func (c CommitInfo) IsMerge() bool {
	return len(c.ParentHashes) > 1
}

// IsRoot reports whether the commit has no parent
func (c CommitInfo) IsRoot() bool {
	return len(c.ParentHashes) == 0
}

// CommitPage is one offset-paginated slice of history.
// Total is the full filtered count, independent of the page.
type CommitPage struct {
	Commits []CommitInfo `json:"commits" yaml:"commits"`
	Total   int          `json:"total" yaml:"total"`
}

// FileStatus is the single-letter change status reported by the diff engine
type FileStatus string

const (
	StatusAdded       FileStatus = "A"
	StatusModified    FileStatus = "M"
	StatusDeleted     FileStatus = "D"
	StatusRenamed     FileStatus = "R"
	StatusCopied      FileStatus = "C"
	StatusTypeChanged FileStatus = "T"
	StatusUnmerged    FileStatus = "U"
	StatusUnknown     FileStatus = "X"
)

// FileChange describes one file touched by a commit
type FileChange struct {
	File       string     `json:"file" yaml:"file"`
	Status     FileStatus `json:"status" yaml:"status"`
	Insertions int        `json:"insertions" yaml:"insertions"`
	Deletions  int        `json:"deletions" yaml:"deletions"`
	Changes    int        `json:"changes" yaml:"changes"`
	Binary     bool       `json:"binary" yaml:"binary"`
}

// DiffStats summarizes the files of a commit
type DiffStats struct {
	Changed    int `json:"changed" yaml:"changed"`
	Insertions int `json:"insertions" yaml:"insertions"`
	Deletions  int `json:"deletions" yaml:"deletions"`
}

// CommitDetail is a commit together with its diff against the first parent
type CommitDetail struct {
	CommitInfo `yaml:",inline"`
	Diff       string       `json:"diff" yaml:"diff"`
	Stats      DiffStats    `json:"stats" yaml:"stats"`
	Files      []FileChange `json:"files" yaml:"files"`
}

// SummarizeFiles computes the stats of a file list.
// Binary files count toward Changed only.
func SummarizeFiles(files []FileChange) DiffStats {
	stats := DiffStats{Changed: len(files)}
	for _, f := range files {
		if f.Binary {
			continue
		}
		stats.Insertions += f.Insertions
		stats.Deletions += f.Deletions
	}
	return stats
}

// BranchInfo describes a local branch (or a remote branch for hosted repositories)
type BranchInfo struct {
	Name           string `json:"name" yaml:"name"`
	Current        bool   `json:"current" yaml:"current"`
	Commit         string `json:"commit" yaml:"commit"`
	Label          string `json:"label" yaml:"label"`
	LinkedWorkTree bool   `json:"linkedWorkTree" yaml:"linkedWorkTree"`
}

// TagInfo describes a tag. Message is empty for lightweight tags.
type TagInfo struct {
	Name        string `json:"name" yaml:"name"`
	Hash        string `json:"hash" yaml:"hash"`
	Message     string `json:"message" yaml:"message"`
	Date        string `json:"date" yaml:"date"`
	Tagger      string `json:"tagger" yaml:"tagger"`
	IsAnnotated bool   `json:"isAnnotated" yaml:"isAnnotated"`
}

// StashEntry is one saved working-tree snapshot. Index 0 is the most recent.
type StashEntry struct {
	Index   int    `json:"index" yaml:"index"`
	Hash    string `json:"hash" yaml:"hash"`
	Message string `json:"message" yaml:"message"`
	Date    string `json:"date" yaml:"date"`
}

// StatusInfo is a snapshot of the working tree
type StatusInfo struct {
	Current    string   `json:"current" yaml:"current"`
	Tracking   string   `json:"tracking" yaml:"tracking"`
	Ahead      int      `json:"ahead" yaml:"ahead"`
	Behind     int      `json:"behind" yaml:"behind"`
	Staged     []string `json:"staged" yaml:"staged"`
	Modified   []string `json:"modified" yaml:"modified"`
	Deleted    []string `json:"deleted" yaml:"deleted"`
	Untracked  []string `json:"untracked" yaml:"untracked"`
	Conflicted []string `json:"conflicted" yaml:"conflicted"`
	IsClean    bool     `json:"isClean" yaml:"isClean"`
}

// NewStatusInfo returns a StatusInfo with empty, non-nil lists
func NewStatusInfo() StatusInfo {
	return StatusInfo{
		Staged:     []string{},
		Modified:   []string{},
		Deleted:    []string{},
		Untracked:  []string{},
		Conflicted: []string{},
		IsClean:    true,
	}
}

// Finalize derives IsClean from the five change lists
func (s *StatusInfo) Finalize() {
	s.IsClean = len(s.Staged) == 0 &&
		len(s.Modified) == 0 &&
		len(s.Deleted) == 0 &&
		len(s.Untracked) == 0 &&
		len(s.Conflicted) == 0
}

// DiffResult is a raw two-ref diff
type DiffResult struct {
	Diff string `json:"diff" yaml:"diff"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Remote is a configured remote of a local repository
type Remote struct {
	Name     string `json:"name" yaml:"name"`
	FetchURL string `json:"fetchUrl" yaml:"fetchUrl"`
	PushURL  string `json:"pushUrl" yaml:"pushUrl"`
}

// Overview summarizes a repository
type Overview struct {
	Path          string   `json:"path" yaml:"path"`
	CurrentBranch string   `json:"currentBranch" yaml:"currentBranch"`
	DefaultBranch string   `json:"defaultBranch" yaml:"defaultBranch"`
	Remotes       []Remote `json:"remotes" yaml:"remotes"`
	IsClean       bool     `json:"isClean" yaml:"isClean"`
	HeadCommit    string   `json:"headCommit" yaml:"headCommit"`
}

// EntryType is the kind of a tree entry
type EntryType string

const (
	EntryFile      EntryType = "file"
	EntryDir       EntryType = "dir"
	EntrySymlink   EntryType = "symlink"
	EntrySubmodule EntryType = "submodule"
)

// TreeEntry is one entry of a directory listing at a ref
type TreeEntry struct {
	Name string    `json:"name" yaml:"name"`
	Path string    `json:"path" yaml:"path"`
	Type EntryType `json:"type" yaml:"type"`
}

// ResetMode selects what a reset preserves
type ResetMode string

const (
	ResetSoft  ResetMode = "soft"
	ResetMixed ResetMode = "mixed"
	ResetHard  ResetMode = "hard"
)

// Valid reports whether m is one of the three reset modes
func (m ResetMode) Valid() bool {
	switch m {
	case ResetSoft, ResetMixed, ResetHard:
		return true
	}
	return false
}

// ListCommitsOptions filters and paginates history
type ListCommitsOptions struct {
	Branch   string
	MaxCount int
	Skip     int
	Search   string
	Author   string
}

// CreateTagOptions configures CreateTag. An empty Message creates a lightweight tag.
type CreateTagOptions struct {
	Message string
	Hash    string
}

// OperationResult is the envelope every mutating operation returns.
// Err keeps the typed cause for logging and is never serialized.
type OperationResult struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
	Err     error  `json:"-" yaml:"-"`
}

// Succeeded builds a successful result
func Succeeded(message string) OperationResult {
	return OperationResult{Success: true, Message: message}
}

// Failed builds a failed result carrying err's message, or fallback when err has none
func Failed(err error, fallback string) OperationResult {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return OperationResult{Success: false, Message: msg, Err: err}
}
