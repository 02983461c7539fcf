// Package errors provides sentinel errors and custom error types for gitscope.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind sentinels. Every typed error below matches exactly one of these via errors.Is.
var (
	// ErrValidation indicates missing or malformed input
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates that a repository, ref, commit, branch, tag or stash does not exist
	ErrNotFound = errors.New("not found")

	// ErrPermission indicates that the operation is not allowed in this deployment
	ErrPermission = errors.New("permission denied")

	// ErrConflict indicates a merge, cherry-pick, revert or stash-apply conflict
	ErrConflict = errors.New("conflict")

	// ErrUnsupported indicates that the backend cannot perform the operation
	ErrUnsupported = errors.New("unsupported operation")

	// ErrBackend indicates an opaque subprocess or network failure
	ErrBackend = errors.New("backend failure")
)

// Finer-grained sentinels for the conditions callers branch on.
var (
	// ErrInvalidRef indicates that a branch, tag or revision does not resolve
	ErrInvalidRef = errors.New("invalid ref")

	// ErrCommitNotFound indicates that a commit hash does not resolve
	ErrCommitNotFound = errors.New("commit not found")

	// ErrUnmergedChanges indicates a safe branch delete refused an unmerged branch
	ErrUnmergedChanges = errors.New("branch has unmerged changes")

	// ErrMergeConflict indicates a merge stopped on conflicts
	ErrMergeConflict = errors.New("merge conflict")

	// ErrApplyConflict indicates a stash apply or pop stopped on conflicts
	ErrApplyConflict = errors.New("stash apply conflict")

	// ErrPickConflict indicates a cherry-pick or revert step stopped on conflicts
	ErrPickConflict = errors.New("cherry-pick conflict")
)

// Kind classifies an error for the response layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindPermission
	KindConflict
	KindUnsupported
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindConflict:
		return "conflict"
	case KindUnsupported:
		return "unsupported"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrPermission):
		return KindPermission
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, ErrBackend):
		return KindBackend
	default:
		return KindUnknown
	}
}

// StatusCode maps err to the HTTP status the API responds with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError represents missing or malformed input caught before any backend call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid '%s': %s", e.Field, e.Message)
}

// Is returns true if the target error is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError represents a missing repository object.
// Object is one of "repository", "ref", "commit", "branch", "tag" or "stash".
type NotFoundError struct {
	Object  string
	Name    string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s '%s' not found", e.Object, e.Name)
}

// Is returns true for ErrNotFound and for the object-specific sentinels
func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return true
	case ErrInvalidRef:
		return e.Object == "ref" || e.Object == "branch" || e.Object == "tag"
	case ErrCommitNotFound:
		return e.Object == "commit"
	}
	return false
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(object, name string) *NotFoundError {
	return &NotFoundError{Object: object, Name: name}
}

// NewInvalidRefError creates a NotFoundError for an unresolvable ref, keeping the backend message
func NewInvalidRefError(ref, message string) *NotFoundError {
	return &NotFoundError{Object: "ref", Name: ref, Message: message}
}

// NewCommitNotFoundError creates a NotFoundError for an unresolvable commit hash
func NewCommitNotFoundError(hash string) *NotFoundError {
	return &NotFoundError{Object: "commit", Name: hash}
}

// PermissionError represents an operation disallowed by the deployment policy
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Reason
}

// Is returns true if the target error is ErrPermission
func (e *PermissionError) Is(target error) bool {
	return target == ErrPermission
}

// NewPermissionError creates a new PermissionError
func NewPermissionError(reason string) *PermissionError {
	return &PermissionError{Reason: reason}
}

// ConflictError represents an operation that stopped on conflicting changes.
// Reason is one of the conflict sentinels (ErrMergeConflict, ErrApplyConflict, ...).
type ConflictError struct {
	Reason  error
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Reason.Error()
}

// Is returns true for ErrConflict and for the specific conflict reason
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict || (e.Reason != nil && target == e.Reason)
}

// NewConflictError creates a new ConflictError
func NewConflictError(reason error, message string) *ConflictError {
	return &ConflictError{Reason: reason, Message: message}
}

// UnsupportedError represents an operation the backend does not provide
type UnsupportedError struct {
	Backend   string
	Operation string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported for %s repositories", e.Operation, e.Backend)
}

// Is returns true if the target error is ErrUnsupported
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// NewUnsupportedError creates a new UnsupportedError
func NewUnsupportedError(backend, operation string) *UnsupportedError {
	return &UnsupportedError{Backend: backend, Operation: operation}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

// Output returns the trimmed stderr and stdout of the failed command.
// Conflicts are reported on stdout by merge and cherry-pick, so both are kept.
func (e *GitCommandError) Output() string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

func (e *GitCommandError) Error() string {
	if out := e.Output(); out != "" {
		return out
	}
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrBackend
func (e *GitCommandError) Is(target error) bool {
	return target == ErrBackend
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// APIError represents a failed hosted-repository API call
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s failed with status %d", e.Operation, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrBackend
func (e *APIError) Is(target error) bool {
	return target == ErrBackend
}

// SequenceOutcome distinguishes how a multi-step mutation ended
type SequenceOutcome int

const (
	OutcomeSucceeded SequenceOutcome = iota
	OutcomeAborted
	OutcomeAbortFailed
)

func (o SequenceOutcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeAborted:
		return "failed-and-aborted"
	default:
		return "failed-and-abort-failed"
	}
}

// SequenceError represents a failed step of a cherry-pick or revert batch.
// Applied counts the earlier steps of the batch that stay applied.
type SequenceError struct {
	Operation string
	Index     int
	Hash      string
	Applied   int
	Err       error
	AbortErr  error
}

// Error returns the message of the failing step unchanged.
func (e *SequenceError) Error() string {
	return e.Err.Error()
}

func (e *SequenceError) Unwrap() error {
	return e.Err
}

// Outcome reports whether the failing step was rolled back
func (e *SequenceError) Outcome() SequenceOutcome {
	if e.AbortErr != nil {
		return OutcomeAbortFailed
	}
	return OutcomeAborted
}

// Is, As, New and Join re-export the standard library helpers so callers
// only need to import this package.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)
