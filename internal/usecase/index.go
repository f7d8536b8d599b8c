package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"librarian/internal/domain"
	"librarian/internal/port"
)

// DefaultBatchSize bounds the number of texts sent in one embedding request.
const DefaultBatchSize = 64

// ProgressFunc reports how many records have been embedded so far.
type ProgressFunc func(done, total int)

// IndexUseCase builds the embedding index from the catalog.
type IndexUseCase struct {
	catalog     port.Catalog
	embedder    port.Embedder
	store       port.VectorStore
	batchSize   int
	concurrency int
	progress    ProgressFunc
	logger      *slog.Logger
}

type IndexOption func(*IndexUseCase)

func WithBatchSize(n int) IndexOption {
	return func(u *IndexUseCase) {
		if n > 0 {
			u.batchSize = n
		}
	}
}

// WithConcurrency sets how many embedding batches may be in flight at once.
func WithConcurrency(n int) IndexOption {
	return func(u *IndexUseCase) {
		if n > 0 {
			u.concurrency = n
		}
	}
}

func WithProgress(fn ProgressFunc) IndexOption {
	return func(u *IndexUseCase) {
		u.progress = fn
	}
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(
	catalog port.Catalog,
	embedder port.Embedder,
	store port.VectorStore,
	opts ...IndexOption,
) *IndexUseCase {
	u := &IndexUseCase{
		catalog:     catalog,
		embedder:    embedder,
		store:       store,
		batchSize:   DefaultBatchSize,
		concurrency: 1,
		logger:      slog.Default().With("component", "index"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	Collection     string
	Entries        int
	Batches        int
	Created        bool
	EmbeddingModel string
	Duration       time.Duration
}

// embedJob ties a catalog record to the vector computed for it.
type embedJob struct {
	ordinal int
	record  domain.BookRecord
	vector  []float32
}

// Build embeds every catalog summary and replaces the collection contents
// with the result. Nothing is written unless every batch succeeds.
func (u *IndexUseCase) Build(ctx context.Context, collection string) (*IndexResult, error) {
	start := time.Now()

	collection = strings.TrimSpace(collection)
	if collection == "" {
		return nil, domain.InvalidArgument("collection name must be non-empty")
	}

	records, err := u.catalog.Load()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	jobs := make([]embedJob, len(records))
	for i, rec := range records {
		jobs[i] = embedJob{ordinal: i, record: rec}
	}

	batches := splitBatches(jobs, u.batchSize)
	u.logger.Info("embedding catalog", "records", len(jobs), "batches", len(batches), "model", u.embedder.ModelName())

	if err := u.embedBatches(ctx, batches, len(jobs)); err != nil {
		return nil, err
	}

	entries := make([]domain.IndexEntry, len(jobs))
	for i, job := range jobs {
		entries[i] = domain.IndexEntry{
			ID:       strconv.Itoa(job.ordinal),
			Document: job.record.Summary,
			Metadata: map[string]string{
				domain.MetaTitle:  job.record.Title,
				domain.MetaThemes: domain.EncodeThemes(job.record.Themes),
			},
			Vector: job.vector,
		}
	}

	coll, created, err := u.store.EnsureCollection(collection, port.SpaceCosine)
	if err != nil {
		return nil, domain.NewProviderError("open collection", err)
	}
	if err := coll.Sync(entries); err != nil {
		return nil, domain.NewProviderError("write index", err)
	}
	if err := coll.SetEmbeddingModel(u.embedder.ModelName()); err != nil {
		return nil, domain.NewProviderError("write index", err)
	}

	count, err := coll.Count()
	if err != nil {
		return nil, domain.NewProviderError("count collection", err)
	}

	return &IndexResult{
		Collection:     collection,
		Entries:        count,
		Batches:        len(batches),
		Created:        created,
		EmbeddingModel: u.embedder.ModelName(),
		Duration:       time.Since(start),
	}, nil
}

func splitBatches(jobs []embedJob, size int) [][]embedJob {
	var batches [][]embedJob
	for start := 0; start < len(jobs); start += size {
		end := start + size
		if end > len(jobs) {
			end = len(jobs)
		}
		batches = append(batches, jobs[start:end])
	}
	return batches
}

// embedBatches fills in the vector of every job. Each batch writes only into
// its own jobs, so completion order does not matter.
func (u *IndexUseCase) embedBatches(ctx context.Context, batches [][]embedJob, total int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		done     int
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	run := func(i int) {
		if err := u.embedBatch(ctx, batches[i]); err != nil {
			fail(fmt.Errorf("batch %d: %w", i, err))
			return
		}
		mu.Lock()
		done += len(batches[i])
		if u.progress != nil {
			u.progress(done, total)
		}
		mu.Unlock()
	}

	if u.concurrency <= 1 || len(batches) == 1 {
		for i := range batches {
			run(i)
			if firstErr != nil {
				return firstErr
			}
		}
		return nil
	}

	pool, err := ants.NewPool(u.concurrency)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range batches {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			run(i)
		}); err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	return firstErr
}

func (u *IndexUseCase) embedBatch(ctx context.Context, batch []embedJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	texts := make([]string, len(batch))
	for i, job := range batch {
		texts[i] = job.record.Summary
	}

	vectors, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return domain.NewProviderError("embed", err)
	}
	if len(vectors) != len(batch) {
		return domain.NewProviderError("embed", fmt.Errorf("got %d vectors for %d texts", len(vectors), len(batch)))
	}

	for i := range batch {
		batch[i].vector = vectors[i]
	}
	return nil
}
