package github

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"

	gserrors "gitscope.dev/gitscope/internal/errors"
)

// statusOf returns the HTTP status of a failed API call, or 0
func statusOf(resp *github.Response, err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	return 0
}

// messageOf returns the API's own error message when there is one
func messageOf(err error) string {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Message != "" {
		return ghErr.Message
	}
	return err.Error()
}

// wrapError classifies a failed API call. notFound builds the error returned
// for a 404 (and for the 422 GitHub uses for unresolvable SHAs); when nil a
// generic APIError is returned instead.
func wrapError(op string, resp *github.Response, err error, notFound func() error) error {
	if err == nil {
		return nil
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &gserrors.APIError{Operation: op, StatusCode: http.StatusForbidden, Message: rateErr.Message, Err: err}
	}

	status := statusOf(resp, err)
	msg := messageOf(err)
	switch status {
	case http.StatusNotFound:
		if notFound != nil {
			return notFound()
		}
	case http.StatusUnprocessableEntity:
		if notFound != nil && isUnresolvable(msg) {
			return notFound()
		}
		return gserrors.NewValidationError("", msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return gserrors.NewPermissionError(msg)
	}
	return &gserrors.APIError{Operation: op, StatusCode: status, Message: msg, Err: err}
}

func isUnresolvable(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "no commit found") ||
		strings.Contains(lower, "reference does not exist") ||
		strings.Contains(lower, "not found")
}

// isEmptyRepository reports whether the API refused because the repository has no commits
func isEmptyRepository(resp *github.Response, err error) bool {
	return statusOf(resp, err) == http.StatusConflict &&
		strings.Contains(strings.ToLower(messageOf(err)), "empty")
}
