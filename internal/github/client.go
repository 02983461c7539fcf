// Package github implements the hosted repository backend on top of the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// NewClient creates an authenticated GitHub client. A non-empty baseURL points
// the client at a GitHub Enterprise Server API.
func NewClient(ctx context.Context, token, baseURL string) (*github.Client, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)
	if baseURL == "" {
		return client, nil
	}
	enterprise, err := client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub base URL %q: %w", baseURL, err)
	}
	return enterprise, nil
}
