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

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/poiesic/querygraph/storage"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 15 * time.Second

	// DefaultBodyLimit caps how many bytes of a response body are parsed.
	DefaultBodyLimit = 2 << 20

	// DefaultHostRate is the steady per-host request rate.
	DefaultHostRate = rate.Limit(2)

	// DefaultHostBurst is the per-host burst size.
	DefaultHostBurst = 4

	defaultUserAgent = "Mozilla/5.0 (compatible; querygraph/1.0)"
)

// Fetcher retrieves the paragraph text of a web page.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	// Fetch returns the page text and true, or "" and false when the page
	// could not be retrieved.
	Fetch(ctx context.Context, url string) (string, bool)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (string, bool)

// Fetch calls fn(ctx, url).
func (fn FetcherFunc) Fetch(ctx context.Context, url string) (string, bool) {
	return fn(ctx, url)
}

// HTTPFetcher fetches pages over HTTP with a per-host token bucket and an
// optional page cache.
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	bodyLimit int64
	userAgent string
	hostRate  rate.Limit
	hostBurst int
	cache     storage.PageCache
	logger    *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher) error

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) error {
		if d <= 0 {
			return fmt.Errorf("%w: timeout must be positive", ErrInvalidOption)
		}
		f.timeout = d
		return nil
	}
}

// WithBodyLimit caps the number of body bytes read per page.
func WithBodyLimit(n int64) Option {
	return func(f *HTTPFetcher) error {
		if n <= 0 {
			return fmt.Errorf("%w: body limit must be positive", ErrInvalidOption)
		}
		f.bodyLimit = n
		return nil
	}
}

// WithHostRate sets the per-host rate limit. rate.Inf disables limiting.
func WithHostRate(limit rate.Limit, burst int) Option {
	return func(f *HTTPFetcher) error {
		if burst < 1 {
			return fmt.Errorf("%w: burst must be at least 1", ErrInvalidOption)
		}
		f.hostRate = limit
		f.hostBurst = burst
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) error {
		f.userAgent = ua
		return nil
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) error {
		f.client = client
		return nil
	}
}

// WithPageCache serves pages from cache and stores successful fetches in it.
func WithPageCache(cache storage.PageCache) Option {
	return func(f *HTTPFetcher) error {
		f.cache = cache
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *HTTPFetcher) error {
		f.logger = logger.With("component", "fetcher")
		return nil
	}
}

// NewHTTPFetcher creates a fetcher with the given options.
func NewHTTPFetcher(opts ...Option) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		client:    &http.Client{},
		timeout:   DefaultTimeout,
		bodyLimit: DefaultBodyLimit,
		userAgent: defaultUserAgent,
		hostRate:  DefaultHostRate,
		hostBurst: DefaultHostBurst,
		logger:    slog.Default().With("component", "fetcher"),
		limiters:  make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Fetch returns the paragraph text of pageURL. Failures are logged and
// reported as absent content.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, bool) {
	if f.cache != nil {
		page, err := f.cache.GetPage(ctx, pageURL)
		if err == nil {
			f.logger.Debug("page cache hit", "url", pageURL)
			return page.Content, true
		}
		if !errors.Is(err, storage.ErrNotFound) {
			f.logger.Warn("page cache read failed", "url", pageURL, "error", err)
		}
	}

	content, err := f.get(ctx, pageURL)
	if err != nil {
		f.logger.Warn("failed to fetch page", "url", pageURL, "error", err)
		return "", false
	}

	if f.cache != nil {
		if err := f.cache.PutPage(ctx, pageURL, content); err != nil {
			f.logger.Warn("page cache write failed", "url", pageURL, "error", err)
		}
	}
	return content, true
}

func (f *HTTPFetcher) get(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if err := f.limiter(u.Host).Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, f.bodyLimit))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return ExtractParagraphs(doc), nil
}

func (f *HTTPFetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(f.hostRate, f.hostBurst)
		f.limiters[host] = l
	}
	return l
}
