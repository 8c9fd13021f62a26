// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package evidence

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/fetch"
	"github.com/poiesic/querygraph/rank"
	"github.com/poiesic/querygraph/segment"
)

const (
	// DefaultContextWindow is the number of neighbouring sentences kept on
	// each side of an evidence sentence.
	DefaultContextWindow = 2

	// DefaultBatchSize is the number of sentences embedded per request.
	DefaultBatchSize = 64

	// DefaultRetryAttempts is the number of tries per embedding batch.
	DefaultRetryAttempts = 3

	// DefaultRetryDelay is the first backoff delay between embedding tries.
	DefaultRetryDelay = 250 * time.Millisecond
)

// Result is the outcome of one aggregation.
type Result struct {
	// Evidence is the ranked top of the index, most similar first.
	Evidence []*core.Evidence
	// Pages holds one page per input record, in input order.
	Pages []*core.Page
	// Scored is the number of sentences that were scored.
	Scored int
}

// PageFunc is called once per finished page with the number of sentences
// scored on it. It may be called concurrently.
type PageFunc func(page *core.Page, scored int)

// Aggregator fetches pages, scores their sentences and ranks them.
type Aggregator struct {
	fetcher       fetch.Fetcher
	embedder      ai.Embedder
	pool          *ants.Pool
	contextWindow int
	resolution    int
	batchSize     int
	backoff       Backoff
	progress      *ProgressTracker
	onPage        PageFunc
	logger        *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator) error

// WithContextWindow sets how many sentences on each side of an evidence
// sentence are kept as its context. Default is 2.
func WithContextWindow(n int) Option {
	return func(a *Aggregator) error {
		if n < 0 {
			return fmt.Errorf("%w: context window must not be negative", ErrInvalidOption)
		}
		a.contextWindow = n
		return nil
	}
}

// WithResolution sets the number of similarity buckets. Default is rank.DefaultResolution.
func WithResolution(n int) Option {
	return func(a *Aggregator) error {
		if n < 1 {
			return fmt.Errorf("%w: resolution must be positive", ErrInvalidOption)
		}
		a.resolution = n
		return nil
	}
}

// WithPoolSize sets the number of pages processed concurrently.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(a *Aggregator) error {
		if size < 1 {
			size = 1
		}
		if a.pool != nil {
			a.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// WithBatchSize sets how many sentences are embedded per request.
func WithBatchSize(n int) Option {
	return func(a *Aggregator) error {
		if n < 1 {
			return fmt.Errorf("%w: batch size must be positive", ErrInvalidOption)
		}
		a.batchSize = n
		return nil
	}
}

// WithRetry sets the attempts and first backoff delay for embedding batches.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(a *Aggregator) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		a.backoff.Attempts = attempts
		a.backoff.Delay = delay
		return nil
	}
}

// WithProgress reports page progress through tracker.
func WithProgress(tracker *ProgressTracker) Option {
	return func(a *Aggregator) error {
		a.progress = tracker
		return nil
	}
}

// WithPageFunc registers a callback run after each page is processed.
func WithPageFunc(fn PageFunc) Option {
	return func(a *Aggregator) error {
		a.onPage = fn
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "evidence-aggregator")
		return nil
	}
}

// NewAggregator creates an aggregator over fetcher and embedder.
// Call Release when done to free the worker pool.
func NewAggregator(fetcher fetch.Fetcher, embedder ai.Embedder, opts ...Option) (*Aggregator, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	a := &Aggregator{
		fetcher:       fetcher,
		embedder:      embedder,
		pool:          pool,
		contextWindow: DefaultContextWindow,
		resolution:    rank.DefaultResolution,
		batchSize:     DefaultBatchSize,
		backoff:       DefaultBackoff,
		logger:        slog.Default().With("component", "evidence-aggregator"),
	}
	for _, opt := range opts {
		if optErr := opt(a); optErr != nil {
			a.Release()
			return nil, optErr
		}
	}
	return a, nil
}

// Release frees the worker pool. The aggregator must not be used afterwards.
func (a *Aggregator) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// Aggregate fetches every record's page, scores each sentence against
// target and returns the min(numNodes, total) most similar items.
// Per-page failures are logged and skipped. The only error returned is a
// context error or a pool submission failure.
func (a *Aggregator) Aggregate(ctx context.Context, records []*core.URLRecord, target []float32, numNodes int) (*Result, error) {
	result := &Result{
		Evidence: []*core.Evidence{},
		Pages:    make([]*core.Page, len(records)),
	}
	if len(records) == 0 {
		return result, nil
	}

	target = rank.NormalizeVector(target)
	index := rank.NewIndex(a.resolution)
	if a.progress != nil {
		a.progress.Start(len(records))
		defer a.progress.Finish()
	}

	var wg sync.WaitGroup
	var scored atomic.Int64
	for i, rec := range records {
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			page, items := a.processPage(ctx, rec, target)
			result.Pages[i] = page
			index.Add(items...)
			scored.Add(int64(len(items)))
			if a.progress != nil {
				a.progress.PageDone(page.HasContent, len(items))
			}
			if a.onPage != nil {
				a.onPage(page, len(items))
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit page task: %w", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Scored = int(scored.Load())
	result.Evidence = index.TopK(numNodes)
	a.logger.Debug("aggregation complete",
		"pages", len(records),
		"scored", result.Scored,
		"returned", len(result.Evidence))
	return result, nil
}

// processPage fetches and scores one page. A page that cannot be fetched or
// embedded yields no items.
func (a *Aggregator) processPage(ctx context.Context, rec *core.URLRecord, target []float32) (*core.Page, []*core.Evidence) {
	page := &core.Page{URL: rec.URL, Queries: rec.QueryList()}
	if ctx.Err() != nil {
		return page, nil
	}

	content, ok := a.fetcher.Fetch(ctx, rec.URL)
	if !ok {
		return page, nil
	}
	page.Content = content
	page.HasContent = true
	page.Sentences = segment.Split(content)
	if len(page.Sentences) == 0 {
		return page, nil
	}

	vectors, err := a.embed(ctx, page.Sentences)
	if err != nil {
		a.logger.Warn("failed to embed page sentences", "url", rec.URL, "sentences", len(page.Sentences), "error", err)
		return page, nil
	}

	items := make([]*core.Evidence, 0, len(page.Sentences))
	for pos, sentence := range page.Sentences {
		vec := rank.NormalizeVector(vectors[pos])
		items = append(items, &core.Evidence{
			URL:        rec.URL,
			Position:   pos,
			Sentence:   sentence,
			Context:    page.Context(pos, a.contextWindow),
			Vector:     vec,
			Similarity: rank.Similarity(vec, target),
		})
	}
	return page, items
}

// embed embeds texts in batches, retrying each batch with backoff.
func (a *Aggregator) embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += a.batchSize {
		batch := texts[start:min(start+a.batchSize, len(texts))]
		vectors, err := Retry(ctx, a.backoff, a.logger, func(ctx context.Context) ([][]float32, error) {
			vectors, err := a.embedder.EmbedTexts(ctx, batch)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
			}
			return vectors, err
		})
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}
