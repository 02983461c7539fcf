package repo

import "context"

// Backend kinds
const (
	KindLocal  = "local"
	KindGitHub = "github"
)

// Backend is the capability interface every repository provider implements.
//
// Read operations return an error classified by internal/errors. Mutating
// operations return an error too; the ops package folds it into an
// OperationResult. Operations a provider cannot perform return an
// UnsupportedError.
type Backend interface {
	// Kind returns KindLocal or KindGitHub
	Kind() string
	// Key returns the canonical identity key the backend was resolved for
	Key() string
	// Check reports whether the bound repository is reachable and valid
	Check(ctx context.Context) error

	// History
	ListCommits(ctx context.Context, opts ListCommitsOptions) ([]CommitInfo, error)
	CountCommits(ctx context.Context, opts ListCommitsOptions) (int, error)
	CommitDetail(ctx context.Context, hash string) (*CommitDetail, error)

	// Branches
	ListBranches(ctx context.Context) ([]BranchInfo, error)
	CreateBranch(ctx context.Context, name, startPoint string) error
	DeleteBranch(ctx context.Context, name string, force bool) error
	Checkout(ctx context.Context, name string) error
	Merge(ctx context.Context, source string) (string, error)

	// Tags
	ListTags(ctx context.Context) ([]TagInfo, error)
	CreateTag(ctx context.Context, name string, opts CreateTagOptions) error
	DeleteTag(ctx context.Context, name string) error

	// Mutations. CherryPick and Revert apply a single commit; batching and
	// abort-on-failure live in the ops package.
	Reset(ctx context.Context, hash string, mode ResetMode) error
	CherryPick(ctx context.Context, hash string) error
	AbortCherryPick(ctx context.Context) error
	Revert(ctx context.Context, hash string) error
	AbortRevert(ctx context.Context) error

	// Stash
	ListStashes(ctx context.Context) ([]StashEntry, error)
	StashSave(ctx context.Context, message string, includeUntracked bool) error
	StashApply(ctx context.Context, index int) error
	StashPop(ctx context.Context, index int) error
	StashDrop(ctx context.Context, index int) error
	StashClear(ctx context.Context) error

	// Inspection
	Status(ctx context.Context) (*StatusInfo, error)
	Diff(ctx context.Context, from, to string) (*DiffResult, error)
	Overview(ctx context.Context) (*Overview, error)
	ListFiles(ctx context.Context, dir, ref string) ([]TreeEntry, error)
}
