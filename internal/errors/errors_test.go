package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "gitscope.dev/gitscope/internal/errors"
)

func TestKindAndStatus(t *testing.T) {
	cmdErr := gserrors.NewGitCommandError("git", []string{"merge", "x"}, "", "fatal: boom\n", fmt.Errorf("exit status 128"))
	apiErr := &gserrors.APIError{Operation: "get repository", StatusCode: http.StatusBadGateway, Message: "bad gateway"}

	tests := []struct {
		name   string
		err    error
		kind   gserrors.Kind
		status int
	}{
		{"validation", gserrors.NewValidationError("hash", "is required"), gserrors.KindValidation, http.StatusBadRequest},
		{"not found", gserrors.NewNotFoundError("branch", "x"), gserrors.KindNotFound, http.StatusNotFound},
		{"invalid ref", gserrors.NewInvalidRefError("nope", "unknown revision 'nope'"), gserrors.KindNotFound, http.StatusNotFound},
		{"commit not found", gserrors.NewCommitNotFoundError("abc"), gserrors.KindNotFound, http.StatusNotFound},
		{"permission", gserrors.NewPermissionError("local mode is disabled"), gserrors.KindPermission, http.StatusForbidden},
		{"conflict", gserrors.NewConflictError(gserrors.ErrMergeConflict, "CONFLICT"), gserrors.KindConflict, http.StatusConflict},
		{"unsupported", gserrors.NewUnsupportedError("github", "stash"), gserrors.KindUnsupported, http.StatusNotImplemented},
		{"git command", cmdErr, gserrors.KindBackend, http.StatusInternalServerError},
		{"api", apiErr, gserrors.KindBackend, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("failed to list commits: %w", cmdErr), gserrors.KindBackend, http.StatusInternalServerError},
		{"sequence over conflict", &gserrors.SequenceError{
			Operation: "cherry-pick",
			Err:       gserrors.NewConflictError(gserrors.ErrPickConflict, "could not apply abc1234"),
		}, gserrors.KindConflict, http.StatusConflict},
		{"sequence over command", &gserrors.SequenceError{Operation: "revert", Err: cmdErr}, gserrors.KindBackend, http.StatusInternalServerError},
		{"unclassified", gserrors.New("something odd"), gserrors.KindUnknown, http.StatusInternalServerError},
		{"nil", nil, gserrors.KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, gserrors.KindOf(tt.err))
			assert.Equal(t, tt.status, gserrors.StatusCode(tt.err))
		})
	}
}

func TestNotFoundSentinels(t *testing.T) {
	assert.ErrorIs(t, gserrors.NewNotFoundError("tag", "v1"), gserrors.ErrInvalidRef)
	assert.NotErrorIs(t, gserrors.NewNotFoundError("tag", "v1"), gserrors.ErrCommitNotFound)
	assert.ErrorIs(t, gserrors.NewCommitNotFoundError("abc"), gserrors.ErrCommitNotFound)
	assert.NotErrorIs(t, gserrors.NewCommitNotFoundError("abc"), gserrors.ErrInvalidRef)
	assert.NotErrorIs(t, gserrors.NewNotFoundError("stash", "stash@{3}"), gserrors.ErrInvalidRef)
}

func TestConflictReason(t *testing.T) {
	err := gserrors.NewConflictError(gserrors.ErrApplyConflict, "")
	assert.ErrorIs(t, err, gserrors.ErrConflict)
	assert.ErrorIs(t, err, gserrors.ErrApplyConflict)
	assert.NotErrorIs(t, err, gserrors.ErrMergeConflict)
	assert.Equal(t, "stash apply conflict", err.Error())
}

func TestGitCommandErrorMessage(t *testing.T) {
	err := gserrors.NewGitCommandError("git", []string{"cherry-pick", "abc"}, "CONFLICT (content)\n", "error: could not apply abc\n", nil)
	assert.Equal(t, "error: could not apply abc\nCONFLICT (content)", err.Error())

	bare := gserrors.NewGitCommandError("git", []string{"status"}, "", "", fmt.Errorf("signal: killed"))
	assert.Equal(t, "git command failed [status]: signal: killed", bare.Error())
	assert.ErrorContains(t, bare.Unwrap(), "killed")
}

func TestSequenceError(t *testing.T) {
	step := gserrors.NewConflictError(gserrors.ErrPickConflict, "could not apply abc1234... fix")
	err := &gserrors.SequenceError{Operation: "cherry-pick", Index: 1, Hash: "abc1234", Applied: 1, Err: step}

	assert.Equal(t, "could not apply abc1234... fix", err.Error())
	assert.Equal(t, gserrors.OutcomeAborted, err.Outcome())

	var seq *gserrors.SequenceError
	require.ErrorAs(t, fmt.Errorf("batch: %w", err), &seq)
	assert.Equal(t, 1, seq.Applied)

	err.AbortErr = gserrors.New("abort failed")
	assert.Equal(t, gserrors.OutcomeAbortFailed, err.Outcome())
	assert.Equal(t, "failed-and-abort-failed", err.Outcome().String())
}
