package processor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Kavirubc/simili-backfill/internal/config"
	"github.com/Kavirubc/simili-backfill/internal/github"
	"github.com/Kavirubc/simili-backfill/internal/pacer"
	"github.com/Kavirubc/simili-backfill/internal/vectordb"
	"github.com/Kavirubc/simili-backfill/pkg/models"
)

const testDims = 8

// fakeLister serves fixed pages; pages past the end are empty
type fakeLister struct {
	pages [][]github.Issue
	errAt int // 1-based page that fails, 0 for never
	calls []github.ListOptions
}

func (f *fakeLister) ListIssues(ctx context.Context, org, repo string, opts github.ListOptions) ([]github.Issue, error) {
	f.calls = append(f.calls, opts)
	if f.errAt == opts.Page {
		return nil, errRateLimited
	}
	if opts.Page-1 < len(f.pages) {
		return f.pages[opts.Page-1], nil
	}
	return nil, nil
}

var errRateLimited = errors.New("rate limited")

func apiIssue(n int) github.Issue {
	return github.Issue{
		Number:  n,
		Title:   fmt.Sprintf("Issue %d", n),
		Body:    "body",
		State:   "open",
		HTMLURL: fmt.Sprintf("https://github.com/acme/widgets/issues/%d", n),
		User:    &github.User{Login: "octocat"},
	}
}

func apiPR(n int) github.Issue {
	i := apiIssue(n)
	i.PullRequest = &github.PullRequest{URL: "https://api.github.com/repos/acme/widgets/pulls/1"}
	return i
}

func modelIssues(numbers ...int) []*models.Issue {
	issues := make([]*models.Issue, len(numbers))
	for i, n := range numbers {
		issues[i] = &models.Issue{
			Org:    "acme",
			Repo:   "widgets",
			Number: n,
			Title:  fmt.Sprintf("Issue %d", n),
			Body:   "body",
			State:  "open",
			Author: "octocat",
		}
	}
	return issues
}

func numbersOf(issues []*models.Issue) []int {
	out := make([]int, len(issues))
	for i, issue := range issues {
		out[i] = issue.Number
	}
	return out
}

// fakeEmbedder returns a constant vector, or a fixed one when set
type fakeEmbedder struct {
	dims   int
	vector []float32
	texts  []string
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) []float32 {
	f.texts = append(f.texts, text)
	if f.vector != nil {
		return f.vector
	}
	v := make([]float32, f.dims)
	for i := range v {
		v[i] = 0.5
	}
	return v
}

// memStore is an in-memory vector store
type memStore struct {
	mu          sync.Mutex
	exists      bool
	records     map[string]*models.IndexRecord
	upserts     [][]*models.IndexRecord
	failUpserts map[int]bool // 1-based upsert calls that fail
	listErr     error
	ensured     int
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*models.IndexRecord{}, failUpserts: map[int]bool{}}
}

func (s *memStore) EnsureCollection(ctx context.Context, name string, dimensions int) error {
	s.ensured++
	s.exists = true
	return nil
}

func (s *memStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	return s.exists, nil
}

func (s *memStore) ListAll(ctx context.Context, collection string, pageSize int) ([]vectordb.StoredPoint, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	points := make([]vectordb.StoredPoint, 0, len(ids))
	for _, id := range ids {
		r := s.records[id]
		points = append(points, vectordb.StoredPoint{
			ID:       r.PointID(),
			Metadata: map[string]any{"issue_number": int64(r.Metadata.IssueNumber), "record_id": r.ID},
		})
	}
	return points, nil
}

func (s *memStore) UpsertRecords(ctx context.Context, collection string, records []*models.IndexRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upserts = append(s.upserts, records)
	if s.failUpserts[len(s.upserts)] {
		return errors.New("upsert rejected")
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

func (s *memStore) upsertSizes() []int {
	sizes := make([]int, len(s.upserts))
	for i, u := range s.upserts {
		sizes[i] = len(u)
	}
	return sizes
}

// recordingPacer remembers requested delays without sleeping
type recordingPacer struct {
	waits []time.Duration
}

func (p *recordingPacer) pacer() pacer.Pacer {
	return pacer.Func(func(ctx context.Context, d time.Duration) error {
		p.waits = append(p.waits, d)
		return ctx.Err()
	})
}

func (p *recordingPacer) count(d time.Duration) int {
	n := 0
	for _, w := range p.waits {
		if w == d {
			n++
		}
	}
	return n
}

func testConfig() *config.Config {
	return &config.Config{
		GitHub:    config.GitHubConfig{Owner: "acme", Repo: "widgets"},
		Qdrant:    config.QdrantConfig{URL: "http://localhost:6334", Collection: "issues"},
		Embedding: config.EmbeddingConfig{Provider: "gemini", Dimensions: testDims},
		Backfill: config.BackfillConfig{
			PageSize:       100,
			ChunkSize:      10,
			ScrollPageSize: 256,
			PageDelay:      time.Second,
			ItemDelay:      500 * time.Millisecond,
			ChunkDelay:     2 * time.Second,
		},
	}
}
