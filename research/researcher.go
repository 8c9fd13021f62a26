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

package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/evidence"
	"github.com/poiesic/querygraph/fetch"
	"github.com/poiesic/querygraph/keywords"
	"github.com/poiesic/querygraph/rank"
	"github.com/poiesic/querygraph/storage"
	"github.com/poiesic/querygraph/websearch"
	"golang.org/x/sync/errgroup"
)

// RankTarget selects the vector evidence sentences are ranked against.
type RankTarget string

const (
	// RankByQuery ranks evidence by similarity to the query.
	RankByQuery RankTarget = "query"
	// RankByAnswer ranks evidence by similarity to the initial answer.
	RankByAnswer RankTarget = "answer"
)

const (
	// DefaultResultsPerQuery is the number of search results requested per query.
	DefaultResultsPerQuery = 10

	// DefaultNodes is the number of evidence items a run returns by default.
	DefaultNodes = 25

	// DefaultClassifyConcurrency bounds relation classification requests in flight.
	DefaultClassifyConcurrency = 4
)

// Researcher runs research pipelines. It is safe for concurrent use.
type Researcher struct {
	provider            ai.AIProvider
	searcher            websearch.Searcher
	fetcher             fetch.Fetcher
	extractor           *keywords.Extractor
	archive             storage.ReportRepository
	initialPrompt       string
	resultsPerQuery     int
	searchConcurrency   int
	rankTarget          RankTarget
	classify            bool
	classifyConcurrency int
	threshold           float64
	aggregatorOpts      []evidence.Option
	logger              *slog.Logger
}

// Option configures a Researcher.
type Option func(*Researcher) error

// WithInitialPrompt sets the instruction placed before the query when
// asking for the initial answer.
func WithInitialPrompt(prompt string) Option {
	return func(r *Researcher) error {
		r.initialPrompt = prompt
		return nil
	}
}

// WithResultsPerQuery sets how many search results each query asks for.
func WithResultsPerQuery(n int) Option {
	return func(r *Researcher) error {
		if n < 1 {
			return fmt.Errorf("%w: results per query must be positive", ErrInvalidOption)
		}
		r.resultsPerQuery = n
		return nil
	}
}

// WithSearchConcurrency bounds the number of searches in flight.
func WithSearchConcurrency(n int) Option {
	return func(r *Researcher) error {
		r.searchConcurrency = n
		return nil
	}
}

// WithKeywordThreshold sets the maximum cosine distance for a keyword pair.
func WithKeywordThreshold(threshold float64) Option {
	return func(r *Researcher) error {
		r.threshold = threshold
		return nil
	}
}

// WithRankTarget selects whether evidence is ranked against the query or
// the initial answer. Default is RankByQuery.
func WithRankTarget(target RankTarget) Option {
	return func(r *Researcher) error {
		switch target {
		case RankByQuery, RankByAnswer:
			r.rankTarget = target
			return nil
		default:
			return fmt.Errorf("%w: unknown rank target %q", ErrInvalidOption, target)
		}
	}
}

// WithClassification labels each ranked evidence item with its relation to
// the answer.
func WithClassification(enabled bool) Option {
	return func(r *Researcher) error {
		r.classify = enabled
		return nil
	}
}

// WithArchive saves every completed report to repo.
func WithArchive(repo storage.ReportRepository) Option {
	return func(r *Researcher) error {
		r.archive = repo
		return nil
	}
}

// WithAggregatorOptions passes options to the evidence aggregator of each run.
func WithAggregatorOptions(opts ...evidence.Option) Option {
	return func(r *Researcher) error {
		r.aggregatorOpts = append(r.aggregatorOpts, opts...)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Researcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "researcher")
		return nil
	}
}

// NewResearcher creates a researcher using provider for language services,
// searcher for web search and fetcher for page retrieval.
func NewResearcher(provider ai.AIProvider, searcher websearch.Searcher, fetcher fetch.Fetcher, opts ...Option) (*Researcher, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	r := &Researcher{
		provider:            provider,
		searcher:            searcher,
		fetcher:             fetcher,
		initialPrompt:       ai.DefaultInitialPrompt,
		resultsPerQuery:     DefaultResultsPerQuery,
		searchConcurrency:   websearch.DefaultConcurrency,
		rankTarget:          RankByQuery,
		classifyConcurrency: DefaultClassifyConcurrency,
		threshold:           keywords.DefaultThreshold,
		logger:              slog.Default().With("component", "researcher"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	extractor, err := keywords.NewExtractor(provider.Parser(),
		keywords.WithThreshold(r.threshold),
		keywords.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}
	r.extractor = extractor
	return r, nil
}

// Research runs the pipeline for query and returns up to numNodes ranked
// evidence items in a report.
func (r *Researcher) Research(ctx context.Context, query string, numNodes int) (*core.Report, error) {
	return r.ResearchWithMonitor(ctx, query, numNodes, nil)
}

// ResearchWithMonitor runs the pipeline with monitoring.
// The monitor receives callbacks at each stage of the run.
func (r *Researcher) ResearchWithMonitor(ctx context.Context, query string, numNodes int, monitor Monitor) (*core.Report, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if numNodes < 1 {
		return nil, ErrInvalidNodeCount
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	started := time.Now()
	report := &core.Report{
		ID:    uuid.NewString(),
		Query: query,
	}
	logger := r.logger.With("run", report.ID)
	monitor.Start(report.ID, query)

	// 1. Embed the query and ask for an initial answer
	stage := time.Now()
	queryVector, err := r.provider.Embedder().EmbedText(ctx, query)
	if err != nil {
		logger.Error("error embedding query", "err", err)
		return nil, fmt.Errorf("%w: query: %w", ErrEmbedding, err)
	}
	report.QueryVector = rank.NormalizeVector(queryVector)

	answer, err := r.provider.Answerer().Ask(ctx, r.prompt(query))
	if err != nil {
		logger.Error("error asking for initial answer", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrAnswer, err)
	}
	report.Answer = answer
	report.Timings.Answer = time.Since(stage)

	// 2. Pair query and answer phrases
	stage = time.Now()
	kw, err := r.extractor.Extract(ctx, query, answer)
	if err != nil {
		logger.Error("error extracting keywords", "err", err)
		return nil, err
	}
	report.AnswerSentences = kw.AnswerSentences
	report.Keywords = kw.Pairs
	report.SentenceIndex = kw.SentenceIndex
	report.Queries = keywords.BuildQueries(kw.Pairs)
	report.Timings.Keywords = time.Since(stage)
	monitor.AfterAnswer(answer, report.AnswerSentences)
	monitor.AfterKeywords(report.Keywords, report.Queries)

	// 3. Search
	stage = time.Now()
	records, err := websearch.Collect(ctx, r.searcher, report.Queries, r.resultsPerQuery, r.searchConcurrency)
	if err != nil {
		logger.Error("error searching", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	report.URLs = records
	report.Timings.Search = time.Since(stage)
	monitor.AfterSearch(records)

	// 4. Fetch, score and rank
	stage = time.Now()
	answerVectors, err := r.embedAnswer(ctx, report.AnswerSentences)
	if err != nil {
		logger.Error("error embedding answer", "err", err)
		return nil, err
	}
	target := report.QueryVector
	if r.rankTarget == RankByAnswer {
		if target, err = r.provider.Embedder().EmbedText(ctx, answer); err != nil {
			logger.Error("error embedding answer", "err", err)
			return nil, fmt.Errorf("%w: answer: %w", ErrEmbedding, err)
		}
	}
	ranked, err := r.aggregate(ctx, records, target, numNodes, monitor)
	if err != nil {
		return nil, err
	}
	report.Evidence = ranked
	report.Timings.Aggregate = time.Since(stage)
	monitor.AfterRanking(ranked)

	// 5. Link evidence to answer sentences
	stage = time.Now()
	for _, e := range ranked {
		e.Relevance, e.Relevant = rank.Link(e.Vector, answerVectors)
	}
	report.Timings.Link = time.Since(stage)

	// 6. Optional relation labels
	if r.classify {
		stage = time.Now()
		r.classifyEvidence(ctx, logger, answer, ranked)
		report.Timings.Classify = time.Since(stage)
	}

	report.Timings.Total = time.Since(started)
	report.CreatedAt = time.Now().UTC()

	if r.archive != nil {
		if err := r.archive.SaveReport(ctx, report); err != nil {
			logger.Warn("failed to archive report", "err", err)
		}
	}

	monitor.Finish(report)
	return report, nil
}

func (r *Researcher) prompt(query string) string {
	prompt := strings.TrimSpace(r.initialPrompt)
	if prompt == "" {
		return query
	}
	return prompt + "\n\n" + query
}

// embedAnswer embeds and normalises the answer sentences.
func (r *Researcher) embedAnswer(ctx context.Context, sentences []string) ([][]float32, error) {
	if len(sentences) == 0 {
		return nil, nil
	}
	vectors, err := r.provider.Embedder().EmbedTexts(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("%w: answer: %w", ErrEmbedding, err)
	}
	for i, v := range vectors {
		vectors[i] = rank.NormalizeVector(v)
	}
	return vectors, nil
}

func (r *Researcher) aggregate(ctx context.Context, records []*core.URLRecord, target []float32, numNodes int, monitor Monitor) ([]*core.Evidence, error) {
	opts := append([]evidence.Option{
		evidence.WithLogger(r.logger),
		evidence.WithPageFunc(monitor.PageProcessed),
	}, r.aggregatorOpts...)
	agg, err := evidence.NewAggregator(r.fetcher, r.provider.Embedder(), opts...)
	if err != nil {
		return nil, err
	}
	defer agg.Release()

	res, err := agg.Aggregate(ctx, records, target, numNodes)
	if err != nil {
		return nil, err
	}
	return res.Evidence, nil
}

// classifyEvidence labels each item concurrently. Failures leave the label empty.
func (r *Researcher) classifyEvidence(ctx context.Context, logger *slog.Logger, answer string, items []*core.Evidence) {
	classifier := r.provider.Classifier()
	var g errgroup.Group
	g.SetLimit(r.classifyConcurrency)
	for _, e := range items {
		g.Go(func() error {
			relation, err := classifier.Classify(ctx, e.Sentence, answer)
			if err != nil {
				logger.Warn("failed to classify evidence", "url", e.URL, "position", e.Position, "err", err)
				return nil
			}
			e.Relation = relation
			return nil
		})
	}
	_ = g.Wait()
}
