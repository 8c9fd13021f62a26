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

// Package cached provides an ai.Embedder decorator that stores vectors in a
// storage.EmbeddingCache so repeated texts are embedded once per model.
package cached

import (
	"context"
	"log/slog"

	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/storage"
)

// Embedder wraps an ai.Embedder with a persistent cache.
// Only texts missing from the cache reach the inner embedder.
type Embedder struct {
	inner  ai.Embedder
	cache  storage.EmbeddingCache
	model  string
	logger *slog.Logger
}

// Option configures an Embedder.
type Option func(*Embedder) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) error {
		e.logger = logger.With("component", "cached-embedder")
		return nil
	}
}

// NewEmbedder wraps inner with cache. Vectors are keyed by model, so
// switching embedding models never returns stale vectors.
func NewEmbedder(inner ai.Embedder, cache storage.EmbeddingCache, model string, opts ...Option) (ai.Embedder, error) {
	e := &Embedder{
		inner:  inner,
		cache:  cache,
		model:  model,
		logger: slog.Default().With("component", "cached-embedder"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// EmbedText returns the cached vector for text or embeds it.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts serves hits from the cache and embeds the misses in one batch.
// Cache read and write failures are logged and fall through to the inner
// embedder.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	result, err := e.cache.GetEmbeddings(ctx, e.model, texts)
	if err != nil {
		e.logger.Warn("embedding cache read failed", "error", err)
		result = make([][]float32, len(texts))
	}

	var missTexts []string
	var missIdx []int
	seen := make(map[string]int)
	for i, vec := range result {
		if vec != nil {
			continue
		}
		if _, ok := seen[texts[i]]; !ok {
			seen[texts[i]] = len(missTexts)
			missTexts = append(missTexts, texts[i])
		}
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		e.logger.Debug("embedding cache hit", "count", len(texts))
		return result, nil
	}

	vectors, err := e.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for _, i := range missIdx {
		result[i] = vectors[seen[texts[i]]]
	}

	if err := e.cache.PutEmbeddings(ctx, e.model, missTexts, vectors); err != nil {
		e.logger.Warn("embedding cache write failed", "error", err)
	}
	e.logger.Debug("embedded texts", "hits", len(texts)-len(missIdx), "misses", len(missTexts))
	return result, nil
}
