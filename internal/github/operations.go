package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
	"github.com/google/uuid"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// Reset force-moves the default branch to hash. There is no index or working
// tree remotely, so every mode behaves the same.
func (b *Backend) Reset(ctx context.Context, hash string, mode repo.ResetMode) error {
	if !mode.Valid() {
		return gserrors.NewValidationError("mode", "must be one of soft, mixed, hard")
	}
	sha, err := b.resolveCommit(ctx, hash)
	if err != nil {
		return err
	}
	defaultBranch, err := b.getDefaultBranch(ctx)
	if err != nil {
		return err
	}
	return b.updateBranch(ctx, defaultBranch, sha, true)
}

func (b *Backend) updateBranch(ctx context.Context, branch, sha string, force bool) error {
	_, resp, err := b.client.Git.UpdateRef(ctx, b.owner, b.name, &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}, force)
	return wrapError("update branch", resp, err, func() error {
		return &gserrors.NotFoundError{Object: "branch", Name: branch}
	})
}

// CherryPick applies a single commit onto the default branch through the
// merge endpoint:
//
//  1. create a commit with the head tree whose parent is the picked commit's parent
//  2. point a temporary branch at it
//  3. merge the picked commit into the temporary branch
//  4. commit the merged tree on top of head with the picked commit's message
//  5. fast-forward the default branch
//
// The temporary branch belongs to this call and is deleted before it returns,
// whether or not the pick succeeded. The default branch only moves in the
// last step, so a failed pick leaves it untouched.
func (b *Backend) CherryPick(ctx context.Context, hash string) (err error) {
	defaultBranch, err := b.getDefaultBranch(ctx)
	if err != nil {
		return err
	}
	headSHA, err := b.branchHead(ctx, defaultBranch)
	if err != nil {
		return err
	}
	head, resp, err := b.client.Git.GetCommit(ctx, b.owner, b.name, headSHA)
	if err != nil {
		return wrapError("get head commit", resp, err, nil)
	}

	sha, err := b.resolveCommit(ctx, hash)
	if err != nil {
		return err
	}
	picked, resp, err := b.client.Git.GetCommit(ctx, b.owner, b.name, sha)
	if err != nil {
		return wrapError("get commit", resp, err, func() error {
			return gserrors.NewCommitNotFoundError(hash)
		})
	}
	if len(picked.Parents) != 1 {
		return fmt.Errorf("commit %s is a merge or root commit and cannot be cherry-picked", abbreviate(sha))
	}

	sibling, resp, err := b.client.Git.CreateCommit(ctx, b.owner, b.name, &github.Commit{
		Message: github.String("gitscope cherry-pick of " + sha),
		Tree:    &github.Tree{SHA: head.GetTree().SHA},
		Parents: []*github.Commit{{SHA: picked.Parents[0].SHA}},
	}, nil)
	if err != nil {
		return wrapError("create temporary commit", resp, err, nil)
	}

	tempBranch := "gitscope-cherry-pick-" + uuid.NewString()
	if _, resp, err := b.client.Git.CreateRef(ctx, b.owner, b.name, &github.Reference{
		Ref:    github.String("refs/heads/" + tempBranch),
		Object: &github.GitObject{SHA: sibling.SHA},
	}); err != nil {
		return wrapError("create temporary branch", resp, err, nil)
	}
	defer func() {
		cleanupErr := b.deleteTempBranch(context.WithoutCancel(ctx), tempBranch)
		if err == nil {
			err = cleanupErr
		}
	}()

	merged, resp, err := b.client.Repositories.Merge(ctx, b.owner, b.name, &github.RepositoryMergeRequest{
		Base:          github.String(tempBranch),
		Head:          github.String(sha),
		CommitMessage: github.String("gitscope merge of " + sha),
	})
	if err != nil {
		if statusOf(resp, err) == http.StatusConflict {
			return gserrors.NewConflictError(gserrors.ErrPickConflict,
				fmt.Sprintf("could not apply %s... %s", abbreviate(sha), firstLine(picked.GetMessage())))
		}
		return wrapError("merge picked commit", resp, err, nil)
	}

	result, resp, err := b.client.Git.CreateCommit(ctx, b.owner, b.name, &github.Commit{
		Message: picked.Message,
		Tree:    &github.Tree{SHA: merged.GetCommit().GetTree().SHA},
		Parents: []*github.Commit{{SHA: github.String(headSHA)}},
		Author:  picked.Author,
	}, nil)
	if err != nil {
		return wrapError("create cherry-picked commit", resp, err, nil)
	}
	return b.updateBranch(ctx, defaultBranch, result.GetSHA(), false)
}

// AbortCherryPick has nothing to restore: a failed pick never moves the
// default branch and removes its own temporary branch.
func (b *Backend) AbortCherryPick(ctx context.Context) error {
	return nil
}

func (b *Backend) deleteTempBranch(ctx context.Context, branch string) error {
	resp, err := b.client.Git.DeleteRef(ctx, b.owner, b.name, "heads/"+branch)
	return wrapError("delete temporary branch", resp, err, nil)
}

// Revert is not available remotely
func (b *Backend) Revert(ctx context.Context, hash string) error {
	return b.unsupported("revert")
}

// AbortRevert is not available remotely
func (b *Backend) AbortRevert(ctx context.Context) error {
	return b.unsupported("revert")
}

func firstLine(msg string) string {
	subject, _ := splitMessage(msg)
	return subject
}
