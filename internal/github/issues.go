package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListOptions configures issue listing
type ListOptions struct {
	State   string // "open", "closed", "all"
	PerPage int
	Page    int
}

// ListIssues fetches one page of the issues endpoint.
// Pull requests are returned as-is; callers filter them with IsPullRequest.
// No sort is requested so GitHub's default order is kept.
func (c *Client) ListIssues(ctx context.Context, org, repo string, opts ListOptions) ([]Issue, error) {
	if opts.PerPage == 0 {
		opts.PerPage = 100
	}
	if opts.State == "" {
		opts.State = "open"
	}
	if opts.Page == 0 {
		opts.Page = 1
	}

	endpoint := issuesEndpoint(org, repo, opts)

	var apiIssues []Issue
	if err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, &apiIssues); err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	return apiIssues, nil
}

func issuesEndpoint(org, repo string, opts ListOptions) string {
	params := url.Values{}
	params.Set("state", opts.State)
	params.Set("per_page", strconv.Itoa(opts.PerPage))
	params.Set("page", strconv.Itoa(opts.Page))

	return fmt.Sprintf("repos/%s/%s/issues?%s", org, repo, params.Encode())
}
