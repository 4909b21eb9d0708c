package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/Kavirubc/simili-backfill/internal/github"
	"github.com/Kavirubc/simili-backfill/internal/pacer"
	"github.com/Kavirubc/simili-backfill/pkg/models"
)

// IssueLister returns one page of the tracker's issue list
type IssueLister interface {
	ListIssues(ctx context.Context, org, repo string, opts github.ListOptions) ([]github.Issue, error)
}

// IssueFetcher pages through all open issues of a repository
type IssueFetcher struct {
	lister    IssueLister
	pacer     pacer.Pacer
	pageSize  int
	pageDelay time.Duration
}

// NewIssueFetcher creates a fetcher
func NewIssueFetcher(lister IssueLister, p pacer.Pacer, pageSize int, pageDelay time.Duration) *IssueFetcher {
	return &IssueFetcher{
		lister:    lister,
		pacer:     p,
		pageSize:  pageSize,
		pageDelay: pageDelay,
	}
}

// FetchAllOpenIssues returns every open issue (pull requests excluded) in
// tracker order. Paging stops at the first page with no entries at all.
// A list error aborts the fetch.
func (f *IssueFetcher) FetchAllOpenIssues(ctx context.Context, org, repo string) ([]*models.Issue, error) {
	var all []*models.Issue

	for page := 1; ; page++ {
		apiIssues, err := f.lister.ListIssues(ctx, org, repo, github.ListOptions{
			State:   "open",
			PerPage: f.pageSize,
			Page:    page,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		kept := 0
		for i := range apiIssues {
			if apiIssues[i].IsPullRequest() {
				continue
			}
			all = append(all, apiIssues[i].ToModel(org, repo))
			kept++
		}
		if len(apiIssues) > 0 {
			fmt.Printf("Fetched page %d: %d issues (%d pull requests skipped)\n", page, kept, len(apiIssues)-kept)
		}

		if err := f.pacer.Wait(ctx, f.pageDelay); err != nil {
			return nil, err
		}

		if len(apiIssues) == 0 {
			break
		}
	}

	return all, nil
}
