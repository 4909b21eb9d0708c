package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/Kavirubc/simili-backfill/internal/vectordb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister struct {
	points   []vectordb.StoredPoint
	err      error
	pageSize int
}

func (s *staticLister) ListAll(ctx context.Context, collection string, pageSize int) ([]vectordb.StoredPoint, error) {
	s.pageSize = pageSize
	return s.points, s.err
}

func TestLoadExistingIssueNumbers(t *testing.T) {
	lister := &staticLister{points: []vectordb.StoredPoint{
		{ID: "a", Metadata: map[string]any{"issue_number": int64(1)}},
		{ID: "b", Metadata: map[string]any{"issue_number": float64(2)}},
		{ID: "c", Metadata: map[string]any{"issue_number": 3}},
		{ID: "d", Metadata: map[string]any{"title": "no number"}},
		{ID: "e", Metadata: map[string]any{"issue_number": "4"}},
		{ID: "f", Metadata: map[string]any{"issue_number": 5.5}},
		{ID: "g", Metadata: nil},
		{ID: "h", Metadata: map[string]any{"issue_number": int64(1)}},
	}}
	r := NewExistingResolver(lister, "issues", "acme", "widgets", 256)

	got, err := r.LoadExistingIssueNumbers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[int]struct{}{1: {}, 2: {}, 3: {}}, got)
	assert.Equal(t, 256, lister.pageSize)
}

func TestLoadExistingIssueNumbers_SharedCollection(t *testing.T) {
	lister := &staticLister{points: []vectordb.StoredPoint{
		{ID: "a", Metadata: map[string]any{"org": "acme", "repo": "widgets", "issue_number": int64(1)}},
		{ID: "b", Metadata: map[string]any{"org": "acme", "repo": "gadgets", "issue_number": int64(2)}},
		{ID: "c", Metadata: map[string]any{"org": "other", "repo": "widgets", "issue_number": int64(3)}},
		{ID: "d", Metadata: map[string]any{"org": "Acme", "repo": "Widgets", "issue_number": int64(4)}},
		{ID: "e", Metadata: map[string]any{"issue_number": int64(5)}},
	}}
	r := NewExistingResolver(lister, "issues", "acme", "widgets", 256)

	got, err := r.LoadExistingIssueNumbers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[int]struct{}{1: {}, 4: {}, 5: {}}, got)
}

func TestLoadExistingIssueNumbers_EmptyIndex(t *testing.T) {
	r := NewExistingResolver(&staticLister{}, "issues", "acme", "widgets", 256)

	got, err := r.LoadExistingIssueNumbers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadExistingIssueNumbers_Error(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewExistingResolver(&staticLister{err: boom}, "issues", "acme", "widgets", 256)

	_, err := r.LoadExistingIssueNumbers(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSelectNew(t *testing.T) {
	tests := []struct {
		name     string
		issues   []int
		existing []int
		want     []int
	}{
		{"empty index", []int{1, 2, 3}, nil, []int{1, 2, 3}},
		{"partial overlap keeps order", []int{9, 4, 7, 2}, []int{4, 2}, []int{9, 7}},
		{"all indexed", []int{1, 2}, []int{1, 2, 3}, []int{}},
		{"no issues", nil, []int{1}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := map[int]struct{}{}
			for _, n := range tt.existing {
				existing[n] = struct{}{}
			}

			got := SelectNew(modelIssues(tt.issues...), existing)
			assert.Equal(t, tt.want, numbersOf(got))
		})
	}
}
