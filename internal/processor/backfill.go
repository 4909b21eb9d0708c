package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kavirubc/simili-backfill/internal/config"
	"github.com/Kavirubc/simili-backfill/internal/embedding"
	"github.com/Kavirubc/simili-backfill/internal/github"
	"github.com/Kavirubc/simili-backfill/internal/pacer"
	"github.com/Kavirubc/simili-backfill/internal/vectordb"
	"github.com/Kavirubc/simili-backfill/pkg/models"
)

// VectorStore is the index the backfill reads from and writes to
type VectorStore interface {
	PointLister
	RecordWriter
	EnsureCollection(ctx context.Context, name string, dimensions int) error
	CollectionExists(ctx context.Context, name string) (bool, error)
}

// Backfiller runs the whole fetch, dedup, embed and upsert pipeline once
type Backfiller struct {
	cfg      *config.Config
	store    VectorStore
	fetcher  *IssueFetcher
	resolver *ExistingResolver
	upserter *BatchUpserter
	dryRun   bool
	closers  []func() error
}

// NewBackfiller wires the GitHub, embedding and Qdrant clients from cfg
func NewBackfiller(cfg *config.Config, dryRun bool) (*Backfiller, error) {
	gh, err := github.NewClient(&cfg.GitHub)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	provider, err := embedding.NewProvider(&cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	generator := embedding.NewGenerator(provider, cfg.Embedding.Dimensions)

	vdb, err := vectordb.NewClient(&cfg.Qdrant)
	if err != nil {
		generator.Close()
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	b := newBackfiller(cfg, gh, generator, vdb, pacer.Sleeper{}, dryRun)
	b.closers = []func() error{generator.Close, vdb.Close, gh.Close}
	return b, nil
}

func newBackfiller(cfg *config.Config, lister IssueLister, embedder Embedder, store VectorStore, p pacer.Pacer, dryRun bool) *Backfiller {
	bf := cfg.Backfill
	return &Backfiller{
		cfg:      cfg,
		store:    store,
		fetcher:  NewIssueFetcher(lister, p, bf.PageSize, bf.PageDelay),
		resolver: NewExistingResolver(store, cfg.Qdrant.Collection, cfg.GitHub.Owner, cfg.GitHub.Repo, bf.ScrollPageSize),
		upserter: NewBatchUpserter(embedder, store, p, UpsertOptions{
			Collection: cfg.Qdrant.Collection,
			ChunkSize:  bf.ChunkSize,
			Dimensions: cfg.Embedding.Dimensions,
			ItemDelay:  bf.ItemDelay,
			ChunkDelay: bf.ChunkDelay,
			DryRun:     dryRun,
		}),
		dryRun: dryRun,
	}
}

// Close releases all clients
func (b *Backfiller) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run executes one backfill. Only fetch, collection and listing failures
// are returned as errors; per-issue and per-chunk failures are counted in
// the report.
func (b *Backfiller) Run(ctx context.Context) (*models.RunReport, error) {
	start := time.Now()
	owner, repo := b.cfg.GitHub.Owner, b.cfg.GitHub.Repo
	collection := b.cfg.Qdrant.Collection

	fmt.Printf("Fetching open issues from %s/%s...\n", owner, repo)
	issues, err := b.fetcher.FetchAllOpenIssues(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}
	fmt.Printf("Found %d open issues\n", len(issues))

	report := &models.RunReport{TotalIssues: len(issues)}
	if len(issues) == 0 {
		fmt.Println("No open issues found, nothing to populate")
		report.DurationMs = elapsedMs(start)
		return report, nil
	}

	existing, err := b.loadExisting(ctx, collection)
	if err != nil {
		return nil, err
	}

	newIssues := SelectNew(issues, existing)
	report.New = len(newIssues)
	report.Existing = len(issues) - len(newIssues)
	fmt.Printf("%d already indexed, %d new\n", report.Existing, report.New)

	if len(newIssues) == 0 {
		fmt.Println("All open issues are already indexed, nothing to populate")
		report.DurationMs = elapsedMs(start)
		return report, nil
	}

	counts, err := b.upserter.Run(ctx, newIssues)
	if counts != nil {
		report.Processed = counts.Processed
		report.Succeeded = counts.Succeeded
		report.Failed = counts.Failed
	}
	report.DurationMs = elapsedMs(start)
	if err != nil {
		return report, fmt.Errorf("backfill interrupted: %w", err)
	}

	return report, nil
}

// loadExisting makes sure the collection is there and returns the issue
// numbers it already holds. A dry run never creates the collection.
func (b *Backfiller) loadExisting(ctx context.Context, collection string) (map[int]struct{}, error) {
	if b.dryRun {
		exists, err := b.store.CollectionExists(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("failed to check collection: %w", err)
		}
		if !exists {
			fmt.Printf("[dry-run] Collection %s does not exist, treating all issues as new\n", collection)
			return map[int]struct{}{}, nil
		}
	} else if err := b.store.EnsureCollection(ctx, collection, b.cfg.Embedding.Dimensions); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}

	existing, err := b.resolver.LoadExistingIssueNumbers(ctx)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func elapsedMs(start time.Time) int {
	return int(time.Since(start).Milliseconds())
}
