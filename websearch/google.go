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

package websearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

const (
	// MaxPerRequest is the most results the Custom Search API returns per call.
	MaxPerRequest = 10

	// DefaultRate is the steady request rate against the search API.
	DefaultRate = rate.Limit(5)

	// DefaultBurst is the search API burst size.
	DefaultBurst = 10
)

// Result is a single web search hit.
type Result struct {
	URL     string
	Title   string
	Snippet string
}

// Searcher runs one web search.
// Implementations must be safe for concurrent use.
type Searcher interface {
	// Search returns up to n results for query.
	Search(ctx context.Context, query string, n int) ([]Result, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string, n int) ([]Result, error)

// Search calls fn(ctx, query, n).
func (fn SearcherFunc) Search(ctx context.Context, query string, n int) ([]Result, error) {
	return fn(ctx, query, n)
}

// GoogleSearcher searches with the Google Custom Search JSON API.
type GoogleSearcher struct {
	service  *customsearch.Service
	engineID string
	language string
	limiter  *rate.Limiter
	logger   *slog.Logger

	endpoint   string
	httpClient *http.Client
}

// Option configures a GoogleSearcher.
type Option func(*GoogleSearcher) error

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(g *GoogleSearcher) error {
		g.endpoint = endpoint
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(g *GoogleSearcher) error {
		g.httpClient = client
		return nil
	}
}

// WithRate sets the API token bucket. rate.Inf disables limiting.
func WithRate(limit rate.Limit, burst int) Option {
	return func(g *GoogleSearcher) error {
		if burst < 1 {
			return fmt.Errorf("%w: burst must be at least 1", ErrInvalidOption)
		}
		g.limiter = rate.NewLimiter(limit, burst)
		return nil
	}
}

// WithLanguage restricts results to a language code such as "en".
// An empty code removes the restriction.
func WithLanguage(code string) Option {
	return func(g *GoogleSearcher) error {
		g.language = code
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *GoogleSearcher) error {
		g.logger = logger.With("component", "google-search")
		return nil
	}
}

// NewGoogleSearcher creates a searcher for the programmable search engine
// engineID, authenticated with apiKey.
func NewGoogleSearcher(ctx context.Context, apiKey, engineID string, opts ...Option) (*GoogleSearcher, error) {
	if apiKey == "" || engineID == "" {
		return nil, ErrMissingCredentials
	}
	g := &GoogleSearcher{
		engineID: engineID,
		language: "en",
		limiter:  rate.NewLimiter(DefaultRate, DefaultBurst),
		logger:   slog.Default().With("component", "google-search"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if g.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(g.endpoint))
	}
	if g.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(g.httpClient))
	}
	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	g.service = svc
	return g, nil
}

// Search returns up to n results for query, paging through the API in
// batches of at most MaxPerRequest. It stops early when a page comes back
// short.
func (g *GoogleSearcher) Search(ctx context.Context, query string, n int) ([]Result, error) {
	var results []Result
	for len(results) < n {
		num := min(MaxPerRequest, n-len(results))
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := g.service.Cse.List().
			Cx(g.engineID).
			Q(query).
			Num(int64(num)).
			Start(int64(len(results) + 1))
		if g.language != "" {
			call = call.Hl(g.language).Lr("lang_" + g.language)
		}
		resp, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrSearchFailed, query, err)
		}

		for _, item := range resp.Items {
			results = append(results, Result{URL: item.Link, Title: item.Title, Snippet: item.Snippet})
		}
		if len(resp.Items) < num {
			break
		}
	}
	if len(results) > n {
		results = results[:n]
	}
	g.logger.Debug("search complete", "query", query, "results", len(results))
	return results, nil
}
