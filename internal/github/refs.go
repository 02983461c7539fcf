package github

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/google/go-github/v62/github"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// ListBranches returns the repository's branches. The default branch is reported as current.
func (b *Backend) ListBranches(ctx context.Context) ([]repo.BranchInfo, error) {
	defaultBranch, err := b.getDefaultBranch(ctx)
	if err != nil {
		return nil, err
	}

	branches := []repo.BranchInfo{}
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: pageSize}}
	for {
		page, resp, err := b.client.Repositories.ListBranches(ctx, b.owner, b.name, opts)
		if err != nil {
			return nil, wrapError("list branches", resp, err, b.repoNotFound)
		}
		for _, br := range page {
			branches = append(branches, repo.BranchInfo{
				Name:    br.GetName(),
				Current: br.GetName() == defaultBranch,
				Commit:  br.GetCommit().GetSHA(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return branches, nil
}

// CreateBranch creates refs/heads/name at startPoint, or at the default branch head
func (b *Backend) CreateBranch(ctx context.Context, name, startPoint string) error {
	var sha string
	var err error
	if startPoint == "" {
		sha, err = b.defaultHead(ctx)
	} else {
		sha, err = b.resolveRef(ctx, startPoint)
	}
	if err != nil {
		return err
	}
	_, resp, err := b.client.Git.CreateRef(ctx, b.owner, b.name, &github.Reference{
		Ref:    github.String("refs/heads/" + name),
		Object: &github.GitObject{SHA: github.String(sha)},
	})
	return wrapError("create branch", resp, err, nil)
}

// DeleteBranch deletes a branch. Without force, a branch with commits the
// default branch does not contain is refused.
func (b *Backend) DeleteBranch(ctx context.Context, name string, force bool) error {
	if _, err := b.branchHead(ctx, name); err != nil {
		return err
	}
	if !force {
		defaultBranch, err := b.getDefaultBranch(ctx)
		if err != nil {
			return err
		}
		cmp, resp, err := b.client.Repositories.CompareCommits(ctx, b.owner, b.name, defaultBranch, name, &github.ListOptions{PerPage: 1})
		if err != nil {
			return wrapError("compare branches", resp, err, nil)
		}
		if cmp.GetAheadBy() > 0 {
			return gserrors.NewConflictError(gserrors.ErrUnmergedChanges,
				fmt.Sprintf("the branch '%s' is not fully merged into '%s'", name, defaultBranch))
		}
	}
	resp, err := b.client.Git.DeleteRef(ctx, b.owner, b.name, "heads/"+name)
	return wrapError("delete branch", resp, err, func() error {
		return &gserrors.NotFoundError{Object: "branch", Name: name}
	})
}

// Checkout is not available without a working tree
func (b *Backend) Checkout(ctx context.Context, name string) error {
	return b.unsupported("checkout")
}

// Merge merges source into the default branch
func (b *Backend) Merge(ctx context.Context, source string) (string, error) {
	defaultBranch, err := b.getDefaultBranch(ctx)
	if err != nil {
		return "", err
	}
	_, resp, err := b.client.Repositories.Merge(ctx, b.owner, b.name, &github.RepositoryMergeRequest{
		Base: github.String(defaultBranch),
		Head: github.String(source),
	})
	if err != nil {
		if statusOf(resp, err) == http.StatusConflict {
			return "", gserrors.NewConflictError(gserrors.ErrMergeConflict, messageOf(err))
		}
		return "", wrapError("merge", resp, err, func() error {
			return gserrors.NewInvalidRefError(source, fmt.Sprintf("unknown revision '%s'", source))
		})
	}
	if resp != nil && resp.StatusCode == http.StatusNoContent {
		return "Already up to date", nil
	}
	return fmt.Sprintf("Merged %s into %s", source, defaultBranch), nil
}

// defaultHead returns the commit the default branch points at
func (b *Backend) defaultHead(ctx context.Context) (string, error) {
	defaultBranch, err := b.getDefaultBranch(ctx)
	if err != nil {
		return "", err
	}
	return b.branchHead(ctx, defaultBranch)
}

// ListTags returns all tags, newest first. Annotated tags carry their message and tagger.
func (b *Backend) ListTags(ctx context.Context) ([]repo.TagInfo, error) {
	refs := []*github.Reference{}
	opts := &github.ReferenceListOptions{Ref: "tags/", ListOptions: github.ListOptions{PerPage: pageSize}}
	for {
		page, resp, err := b.client.Git.ListMatchingRefs(ctx, b.owner, b.name, opts)
		if err != nil {
			if isEmptyRepository(resp, err) {
				return []repo.TagInfo{}, nil
			}
			return nil, wrapError("list tags", resp, err, b.repoNotFound)
		}
		refs = append(refs, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	tags := make([]repo.TagInfo, 0, len(refs))
	for _, ref := range refs {
		tag, err := b.tagInfo(ctx, ref)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Date > tags[j].Date })
	return tags, nil
}

func (b *Backend) tagInfo(ctx context.Context, ref *github.Reference) (repo.TagInfo, error) {
	name := strings.TrimPrefix(ref.GetRef(), "refs/tags/")
	obj := ref.GetObject()
	if obj.GetType() == "tag" {
		t, resp, err := b.client.Git.GetTag(ctx, b.owner, b.name, obj.GetSHA())
		if err != nil {
			return repo.TagInfo{}, wrapError("get tag", resp, err, nil)
		}
		return repo.TagInfo{
			Name:        name,
			Hash:        t.GetObject().GetSHA(),
			Message:     firstLine(t.GetMessage()),
			Date:        formatTime(t.GetTagger().GetDate()),
			Tagger:      t.GetTagger().GetName(),
			IsAnnotated: true,
		}, nil
	}

	c, resp, err := b.client.Git.GetCommit(ctx, b.owner, b.name, obj.GetSHA())
	if err != nil {
		return repo.TagInfo{}, wrapError("get tagged commit", resp, err, nil)
	}
	return repo.TagInfo{
		Name: name,
		Hash: obj.GetSHA(),
		Date: formatTime(c.GetCommitter().GetDate()),
	}, nil
}

// CreateTag creates a lightweight tag, or an annotated tag object plus ref when a message is given
func (b *Backend) CreateTag(ctx context.Context, name string, opts repo.CreateTagOptions) error {
	var target string
	var err error
	if opts.Hash == "" {
		target, err = b.defaultHead(ctx)
	} else {
		target, err = b.resolveCommit(ctx, opts.Hash)
	}
	if err != nil {
		return err
	}

	refSHA := target
	if opts.Message != "" {
		t, resp, err := b.client.Git.CreateTag(ctx, b.owner, b.name, &github.Tag{
			Tag:     github.String(name),
			Message: github.String(opts.Message),
			Object:  &github.GitObject{Type: github.String("commit"), SHA: github.String(target)},
		})
		if err != nil {
			return wrapError("create tag", resp, err, nil)
		}
		refSHA = t.GetSHA()
	}

	_, resp, err := b.client.Git.CreateRef(ctx, b.owner, b.name, &github.Reference{
		Ref:    github.String("refs/tags/" + name),
		Object: &github.GitObject{SHA: github.String(refSHA)},
	})
	return wrapError("create tag ref", resp, err, nil)
}

// DeleteTag deletes a tag ref
func (b *Backend) DeleteTag(ctx context.Context, name string) error {
	resp, err := b.client.Git.DeleteRef(ctx, b.owner, b.name, "tags/"+name)
	return wrapError("delete tag", resp, err, func() error {
		return &gserrors.NotFoundError{Object: "tag", Name: name}
	})
}
