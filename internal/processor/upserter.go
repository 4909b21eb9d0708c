package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Kavirubc/simili-backfill/internal/embedding"
	"github.com/Kavirubc/simili-backfill/internal/pacer"
	"github.com/Kavirubc/simili-backfill/pkg/models"
)

// Embedder turns text into a vector. It never fails; failures yield a
// fallback vector of the configured width.
type Embedder interface {
	Generate(ctx context.Context, text string) []float32
}

// RecordWriter writes a batch of records in one call
type RecordWriter interface {
	UpsertRecords(ctx context.Context, collection string, records []*models.IndexRecord) error
}

// UpsertOptions controls batching and pacing of the upsert run
type UpsertOptions struct {
	Collection string
	ChunkSize  int
	Dimensions int
	ItemDelay  time.Duration
	ChunkDelay time.Duration
	DryRun     bool
}

// BatchUpserter embeds issues and writes them to the index chunk by chunk
type BatchUpserter struct {
	embedder Embedder
	store    RecordWriter
	pacer    pacer.Pacer
	opts     UpsertOptions
	now      func() time.Time
}

// NewBatchUpserter creates a batch upserter
func NewBatchUpserter(embedder Embedder, store RecordWriter, p pacer.Pacer, opts UpsertOptions) *BatchUpserter {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 10
	}
	return &BatchUpserter{
		embedder: embedder,
		store:    store,
		pacer:    p,
		opts:     opts,
		now:      time.Now,
	}
}

// Run processes issues in chunks. A record that cannot be built counts as
// failed on its own; an upsert failure fails every record of its chunk.
// Only context cancellation stops the run early.
func (u *BatchUpserter) Run(ctx context.Context, issues []*models.Issue) (*models.RunReport, error) {
	report := &models.RunReport{}
	chunks := (len(issues) + u.opts.ChunkSize - 1) / u.opts.ChunkSize

	for c := 0; c < chunks; c++ {
		start := c * u.opts.ChunkSize
		end := min(start+u.opts.ChunkSize, len(issues))
		chunk := issues[start:end]

		fmt.Printf("Processing batch %d/%d (%d issues)\n", c+1, chunks, len(chunk))

		pending := make([]*models.IndexRecord, 0, len(chunk))
		for _, issue := range chunk {
			record, err := u.buildRecord(ctx, issue)
			if err != nil {
				log.Printf("Warning: skipping issue %s: %v", issueRef(issue), err)
				report.Failed++
				continue
			}

			pending = append(pending, record)
			report.Processed++

			if err := u.pacer.Wait(ctx, u.opts.ItemDelay); err != nil {
				// built but never written
				report.Failed += len(pending)
				return report, err
			}
		}

		if len(pending) > 0 {
			u.writeChunk(ctx, c+1, chunks, pending, report)
		}

		if c < chunks-1 {
			if err := u.pacer.Wait(ctx, u.opts.ChunkDelay); err != nil {
				return report, err
			}
		}
	}

	return report, nil
}

// writeChunk upserts pending as one unit and records the outcome
func (u *BatchUpserter) writeChunk(ctx context.Context, n, total int, pending []*models.IndexRecord, report *models.RunReport) {
	if u.opts.DryRun {
		fmt.Printf("[dry-run] Would upsert batch %d/%d (%d records)\n", n, total, len(pending))
		report.Succeeded += len(pending)
		return
	}

	if err := u.store.UpsertRecords(ctx, u.opts.Collection, pending); err != nil {
		log.Printf("Warning: batch %d/%d upsert failed: %v", n, total, err)
		report.Failed += len(pending)
		return
	}

	fmt.Printf("Upserted batch %d/%d (%d records)\n", n, total, len(pending))
	report.Succeeded += len(pending)
}

// buildRecord embeds one issue and assembles its index record
func (u *BatchUpserter) buildRecord(ctx context.Context, issue *models.Issue) (*models.IndexRecord, error) {
	if issue == nil {
		return nil, errors.New("nil issue")
	}
	if issue.Number <= 0 {
		return nil, fmt.Errorf("invalid issue number %d", issue.Number)
	}

	text := embedding.IssueText(issue.Title, issue.Body)
	vector := u.embedder.Generate(ctx, text)
	if len(vector) != u.opts.Dimensions {
		return nil, fmt.Errorf("vector has %d dimensions, want %d", len(vector), u.opts.Dimensions)
	}

	return &models.IndexRecord{
		ID:       models.RecordID(issue.Number, u.now()),
		Values:   vector,
		Metadata: models.NewRecordMetadata(issue, text),
	}, nil
}

func issueRef(issue *models.Issue) string {
	if issue == nil {
		return "<nil>"
	}
	return fmt.Sprintf("#%d", issue.Number)
}
