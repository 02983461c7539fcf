// Package backend resolves repository identities into cached repo.Backend handles.
package backend

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// githubName matches GitHub owner and repository names
var githubName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Identity names a repository: a local path, or a GitHub owner and name.
type Identity struct {
	Kind  string `json:"kind"`
	Path  string `json:"path,omitempty"`
	Owner string `json:"owner,omitempty"`
	Name  string `json:"name,omitempty"`
}

// ParseIdentity builds an Identity from request parameters. Exactly one of
// path or owner+name must be given.
func ParseIdentity(path, owner, name string) (Identity, error) {
	path = strings.TrimSpace(path)
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)

	hasRemote := owner != "" || name != ""
	switch {
	case path != "" && hasRemote:
		return Identity{}, gserrors.NewValidationError("path", "give either a path or an owner and repository, not both")
	case path != "":
		return Identity{Kind: repo.KindLocal, Path: path}, nil
	case owner == "" && name == "":
		return Identity{}, gserrors.NewValidationError("path", "a repository path or owner and repository is required")
	case owner == "":
		return Identity{}, gserrors.NewValidationError("owner", "is required")
	case name == "":
		return Identity{}, gserrors.NewValidationError("repo", "is required")
	case !githubName.MatchString(owner):
		return Identity{}, gserrors.NewValidationError("owner", fmt.Sprintf("'%s' is not a valid owner", owner))
	case !githubName.MatchString(name):
		return Identity{}, gserrors.NewValidationError("repo", fmt.Sprintf("'%s' is not a valid repository name", name))
	}
	return Identity{Kind: repo.KindGitHub, Owner: owner, Name: name}, nil
}

// ParseSlug parses "owner/name", as given to --github
func ParseSlug(slug string) (Identity, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(slug), "/")
	if !ok || strings.Contains(name, "/") {
		return Identity{}, gserrors.NewValidationError("github", fmt.Sprintf("'%s' is not of the form owner/name", slug))
	}
	return ParseIdentity("", owner, name)
}

// Key returns the canonical cache key: the absolute cleaned path for local
// repositories, owner/name lower-cased for GitHub.
func (id Identity) Key() (string, error) {
	switch id.Kind {
	case repo.KindLocal:
		abs, err := filepath.Abs(id.Path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}
		return filepath.Clean(abs), nil
	case repo.KindGitHub:
		return strings.ToLower(id.Owner + "/" + id.Name), nil
	default:
		return "", gserrors.NewValidationError("kind", fmt.Sprintf("unknown repository kind '%s'", id.Kind))
	}
}

func (id Identity) String() string {
	if id.Kind == repo.KindGitHub {
		return id.Owner + "/" + id.Name
	}
	return id.Path
}
