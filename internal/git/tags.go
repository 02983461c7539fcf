package git

import (
	"context"
	"fmt"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// ListTags returns all tags, newest-created first
func (b *Backend) ListTags(ctx context.Context) ([]repo.TagInfo, error) {
	out, err := b.runner.RunRaw(ctx, "for-each-ref", "--sort=-creatordate", tagFormat, "refs/tags")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return parseTags(out)
}

// CreateTag creates a lightweight tag, or an annotated one when a message is given
func (b *Backend) CreateTag(ctx context.Context, name string, opts repo.CreateTagOptions) error {
	if err := checkName("name", name); err != nil {
		return err
	}
	args := []string{"tag"}
	if opts.Message != "" {
		args = append(args, "-a", name, "-m", opts.Message)
	} else {
		args = append(args, name)
	}
	if opts.Hash != "" {
		if _, err := b.resolveCommit(ctx, opts.Hash); err != nil {
			return err
		}
		args = append(args, opts.Hash)
	}
	if _, err := b.runner.Run(ctx, args...); err != nil {
		return err
	}
	return nil
}

// DeleteTag deletes a tag
func (b *Backend) DeleteTag(ctx context.Context, name string) error {
	if !b.refExists(ctx, "refs/tags/"+name) {
		return &gserrors.NotFoundError{Object: "tag", Name: name, Message: fmt.Sprintf("tag '%s' not found", name)}
	}
	if _, err := b.runner.Run(ctx, "tag", "-d", name); err != nil {
		return err
	}
	return nil
}
