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

// Package querygraph checks a language model's answer against the web.
//
// An Engine wires the pieces together from a Config: the language and
// embedding models, the web searcher, the page fetcher and, when a storage
// path is set, a badger store that caches embeddings and pages and archives
// every report.
//
//	cfg, err := querygraph.LoadConfig("querygraph.yaml")
//	engine, err := querygraph.NewEngine(ctx, cfg)
//	defer engine.Close()
//	report, err := engine.Research(ctx, "Who was the first person on the moon?", 25, nil)
package querygraph

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/ai/cached"
	"github.com/poiesic/querygraph/ai/langchain"
	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/evidence"
	"github.com/poiesic/querygraph/fetch"
	"github.com/poiesic/querygraph/rank"
	"github.com/poiesic/querygraph/research"
	"github.com/poiesic/querygraph/storage"
	"github.com/poiesic/querygraph/storage/badger"
	"github.com/poiesic/querygraph/websearch"
	"golang.org/x/time/rate"
)

// Engine runs research and serves the report archive.
type Engine struct {
	config     *Config
	store      storage.Store
	provider   ai.AIProvider
	researcher *research.Researcher
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider ai.AIProvider
	searcher websearch.Searcher
	fetcher  fetch.Fetcher
	store    storage.Store
	progress io.Writer
	logger   *slog.Logger

	archiveOnly bool
}

// WithProvider uses provider instead of building one from the AI config.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithSearcher uses searcher instead of the Google Custom Search client.
func WithSearcher(searcher websearch.Searcher) EngineOption {
	return func(o *engineOptions) {
		o.searcher = searcher
	}
}

// WithFetcher uses fetcher instead of the HTTP fetcher.
func WithFetcher(fetcher fetch.Fetcher) EngineOption {
	return func(o *engineOptions) {
		o.fetcher = fetcher
	}
}

// WithStore uses store instead of opening one at the configured path.
// The engine takes ownership and closes it.
func WithStore(store storage.Store) EngineOption {
	return func(o *engineOptions) {
		o.store = store
	}
}

// WithProgress writes page progress to w during each run.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// ArchiveOnly builds an engine that serves the report archive but cannot
// run research, so no search credentials are needed.
func ArchiveOnly() EngineOption {
	return func(o *engineOptions) {
		o.archiveOnly = true
	}
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine builds an engine from cfg.
func NewEngine(ctx context.Context, cfg *Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	e := &Engine{config: cfg, store: options.store, logger: logger.With("component", "engine")}

	// Open storage
	if e.store == nil && cfg.Storage.Path != "" {
		store, err := badger.NewStore(cfg.Storage.Path,
			badger.WithPageTTL(cfg.Storage.PageTTL),
			badger.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		e.store = store
	}

	// Create AI provider
	provider := options.provider
	if provider == nil {
		aiCfg := cfg.AIConfig()
		var providerOpts []langchain.ProviderOption
		if e.store != nil && cfg.Storage.CacheEmbeddings {
			providerOpts = append(providerOpts, langchain.WithEmbedder(func(inner ai.Embedder) ai.Embedder {
				wrapped, err := cached.NewEmbedder(inner, e.store, aiCfg.EmbeddingModel, cached.WithLogger(logger))
				if err != nil {
					return inner
				}
				return wrapped
			}))
		}
		var err error
		provider, err = langchain.NewProvider(aiCfg, providerOpts...)
		if err != nil {
			e.closeStore()
			return nil, err
		}
	}
	e.provider = provider
	if options.archiveOnly {
		if e.store == nil {
			e.Close()
			return nil, ErrNoArchive
		}
		return e, nil
	}

	// Web search
	searcher := options.searcher
	if searcher == nil {
		searchOpts := []websearch.Option{
			websearch.WithRate(rate.Limit(cfg.Search.RequestsPerSecond), max(cfg.Search.Burst, 1)),
			websearch.WithLogger(logger),
		}
		if cfg.Search.Endpoint != "" {
			searchOpts = append(searchOpts, websearch.WithEndpoint(cfg.Search.Endpoint))
		}
		g, err := websearch.NewGoogleSearcher(ctx, cfg.Search.APIKey, cfg.Search.EngineID, searchOpts...)
		if err != nil {
			e.Close()
			return nil, err
		}
		searcher = g
	}

	// Page fetcher
	fetcher := options.fetcher
	if fetcher == nil {
		fetchOpts := []fetch.Option{
			fetch.WithTimeout(cfg.Fetch.Timeout),
			fetch.WithBodyLimit(cfg.Fetch.BodyLimit),
			fetch.WithHostRate(rate.Limit(cfg.Fetch.RequestsPerSecond), max(cfg.Fetch.Burst, 1)),
			fetch.WithLogger(logger),
		}
		if cfg.Fetch.UserAgent != "" {
			fetchOpts = append(fetchOpts, fetch.WithUserAgent(cfg.Fetch.UserAgent))
		}
		if e.store != nil {
			fetchOpts = append(fetchOpts, fetch.WithPageCache(e.store))
		}
		f, err := fetch.NewHTTPFetcher(fetchOpts...)
		if err != nil {
			e.Close()
			return nil, err
		}
		fetcher = f
	}

	// Research pipeline
	aggOpts := []evidence.Option{
		evidence.WithContextWindow(cfg.Research.ContextWindow),
		evidence.WithResolution(cfg.Research.Resolution),
	}
	if cfg.Research.PoolSize > 0 {
		aggOpts = append(aggOpts, evidence.WithPoolSize(cfg.Research.PoolSize))
	}
	if options.progress != nil {
		aggOpts = append(aggOpts, evidence.WithProgress(evidence.NewProgressTracker(options.progress, 1)))
	}
	researchOpts := []research.Option{
		research.WithInitialPrompt(cfg.AI.InitialPrompt),
		research.WithResultsPerQuery(cfg.Search.ResultsPerQuery),
		research.WithSearchConcurrency(cfg.Search.Concurrency),
		research.WithKeywordThreshold(cfg.Research.KeywordThreshold),
		research.WithRankTarget(research.RankTarget(cfg.Research.RankTarget)),
		research.WithClassification(cfg.Research.Classify),
		research.WithAggregatorOptions(aggOpts...),
		research.WithLogger(logger),
	}
	if e.store != nil {
		researchOpts = append(researchOpts, research.WithArchive(e.store))
	}
	researcher, err := research.NewResearcher(provider, searcher, fetcher, researchOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.researcher = researcher
	return e, nil
}

// Research runs one research pipeline. monitor may be nil.
func (e *Engine) Research(ctx context.Context, query string, numNodes int, monitor research.Monitor) (*core.Report, error) {
	if e.researcher == nil {
		return nil, ErrArchiveOnly
	}
	if numNodes <= 0 {
		numNodes = e.config.Research.Nodes
	}
	return e.researcher.ResearchWithMonitor(ctx, query, numNodes, monitor)
}

// History lists archived reports, most recent first.
func (e *Engine) History(ctx context.Context, limit int) ([]*core.ReportSummary, error) {
	if e.store == nil {
		return nil, ErrNoArchive
	}
	return e.store.ListReports(ctx, limit)
}

// Report fetches one archived report.
func (e *Engine) Report(ctx context.Context, id string) (*core.Report, error) {
	if e.store == nil {
		return nil, ErrNoArchive
	}
	return e.store.GetReport(ctx, id)
}

// SimilarReports finds archived runs whose query resembles text.
func (e *Engine) SimilarReports(ctx context.Context, text string, minSimilarity float32, limit int) ([]*core.ReportMatch, error) {
	if e.store == nil {
		return nil, ErrNoArchive
	}
	vector, err := e.provider.Embedder().EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.store.FindSimilarReports(ctx, rank.NormalizeVector(vector), minSimilarity, limit)
}

// DeleteReport removes one archived report.
func (e *Engine) DeleteReport(ctx context.Context, id string) error {
	if e.store == nil {
		return ErrNoArchive
	}
	return e.store.DeleteReport(ctx, id)
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Close releases the provider and the store.
func (e *Engine) Close() error {
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	return e.closeStore()
}

func (e *Engine) closeStore() error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}
