package github

import (
	"fmt"
	"time"

	"github.com/Kavirubc/simili-backfill/internal/config"
	"github.com/Kavirubc/simili-backfill/pkg/models"
	"github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps GitHub API operations
type Client struct {
	rest *api.RESTClient
}

// NewClient creates a new GitHub client.
// Without a configured token go-gh falls back to its own credential lookup.
func NewClient(cfg *config.GitHubConfig) (*Client, error) {
	var (
		rest *api.RESTClient
		err  error
	)
	if cfg.Token != "" {
		rest, err = api.NewRESTClient(api.ClientOptions{
			AuthToken: cfg.Token,
			Host:      "github.com",
		})
	} else {
		rest, err = api.DefaultRESTClient()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	return &Client{rest: rest}, nil
}

// Close releases resources
func (c *Client) Close() error {
	return nil
}

// Issue represents a GitHub issue from the API
type Issue struct {
	Number      int          `json:"number"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	State       string       `json:"state"`
	HTMLURL     string       `json:"html_url"`
	User        *User        `json:"user"`
	Labels      []Label      `json:"labels"`
	PullRequest *PullRequest `json:"pull_request,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// User represents a GitHub user
type User struct {
	Login string `json:"login"`
}

// Label represents a GitHub label
type Label struct {
	Name string `json:"name"`
}

// PullRequest is present only on pull requests returned by the issues endpoint
type PullRequest struct {
	URL string `json:"url"`
}

// IsPullRequest reports whether the entry is a pull request.
// The issues endpoint returns both; only PRs carry a pull_request object.
func (i *Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// ToModel converts API Issue to models.Issue
func (i *Issue) ToModel(org, repo string) *models.Issue {
	labels := make([]string, len(i.Labels))
	for j, l := range i.Labels {
		labels[j] = l.Name
	}

	author := ""
	if i.User != nil {
		author = i.User.Login
	}

	return &models.Issue{
		Org:       org,
		Repo:      repo,
		Number:    i.Number,
		Title:     i.Title,
		Body:      i.Body,
		State:     i.State,
		Labels:    labels,
		Author:    author,
		URL:       i.HTMLURL,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
