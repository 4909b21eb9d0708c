package processor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Kavirubc/simili-backfill/internal/vectordb"
)

// issueNumberKey is the payload field holding the issue number
const issueNumberKey = "issue_number"

// PointLister enumerates every record in a collection
type PointLister interface {
	ListAll(ctx context.Context, collection string, pageSize int) ([]vectordb.StoredPoint, error)
}

// ExistingResolver reads which issue numbers of one repository are already
// in the index
type ExistingResolver struct {
	store      PointLister
	collection string
	org        string
	repo       string
	pageSize   int
}

// NewExistingResolver creates a resolver for org/repo in a collection
func NewExistingResolver(store PointLister, collection, org, repo string, pageSize int) *ExistingResolver {
	return &ExistingResolver{
		store:      store,
		collection: collection,
		org:        org,
		repo:       repo,
		pageSize:   pageSize,
	}
}

// LoadExistingIssueNumbers returns the set of issue numbers already indexed.
// Records without an issue number are ignored, as are records tagged with
// another repository. Untagged records are attributed to this one.
func (r *ExistingResolver) LoadExistingIssueNumbers(ctx context.Context) (map[int]struct{}, error) {
	points, err := r.store.ListAll(ctx, r.collection, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing records: %w", err)
	}

	numbers := make(map[int]struct{}, len(points))
	for _, p := range points {
		if !r.sameRepo(p.Metadata) {
			continue
		}
		if n, ok := issueNumber(p.Metadata); ok {
			numbers[n] = struct{}{}
		}
	}

	return numbers, nil
}

// sameRepo reports whether a record belongs to the resolver's repository.
// GitHub owner and repo names are case-insensitive.
func (r *ExistingResolver) sameRepo(md map[string]any) bool {
	for key, want := range map[string]string{"org": r.org, "repo": r.repo} {
		got, ok := md[key].(string)
		if ok && got != "" && want != "" && !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}

// issueNumber extracts the issue number from record metadata.
// Integral doubles are accepted since some writers store numbers as floats.
func issueNumber(md map[string]any) (int, bool) {
	switch v := md[issueNumberKey].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
