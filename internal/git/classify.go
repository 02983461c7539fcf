package git

import (
	"strings"

	gserrors "gitscope.dev/gitscope/internal/errors"
)

// commandOutput returns the combined output of a failed git command, or "" for other errors
func commandOutput(err error) string {
	var gitErr *gserrors.GitCommandError
	if gserrors.As(err, &gitErr) {
		return gitErr.Output()
	}
	return ""
}

// hasConflict reports whether a failed merge-like command stopped on conflicts
func hasConflict(err error) bool {
	out := commandOutput(err)
	return strings.Contains(out, "CONFLICT") ||
		strings.Contains(out, "could not apply") ||
		strings.Contains(out, "Automatic merge failed") ||
		strings.Contains(out, "after resolving the conflicts")
}

// asConflict wraps err as a ConflictError with the given reason when git
// reported conflicts, keeping git's own message. Other errors pass through.
func asConflict(err error, reason error) error {
	if err == nil || !hasConflict(err) {
		return err
	}
	return gserrors.NewConflictError(reason, err.Error())
}

// isUnbornHead reports whether err means HEAD does not point at a commit yet
func isUnbornHead(err error) bool {
	out := commandOutput(err)
	return strings.Contains(out, "does not have any commits yet") ||
		strings.Contains(out, "ambiguous argument 'HEAD'") ||
		strings.Contains(out, "bad default revision 'HEAD'")
}

// isNotRepository reports whether git refused to run outside a repository
func isNotRepository(err error) bool {
	return strings.Contains(commandOutput(err), "not a git repository")
}
