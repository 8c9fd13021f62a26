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

package keywords

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/core"
)

// Extractor finds keyword pairs shared by a query and an answer.
type Extractor struct {
	parser    ai.Parser
	threshold float64
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithThreshold sets the maximum cosine distance for a retained pair.
func WithThreshold(threshold float64) Option {
	return func(e *Extractor) error {
		if threshold < 0 || threshold > 2 {
			return fmt.Errorf("threshold must be in [0,2], got %v", threshold)
		}
		e.threshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger for the extractor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		e.logger = logger
		return nil
	}
}

// NewExtractor creates an extractor that parses text with parser.
func NewExtractor(parser ai.Parser, opts ...Option) (*Extractor, error) {
	e := &Extractor{
		parser:    parser,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "keyword-extractor")
	return e, nil
}

// Extract parses query and answer and matches their noun phrases.
// Parse failures are returned; finding no phrases is not an error.
func (e *Extractor) Extract(ctx context.Context, query, answer string) (Result, error) {
	q, err := e.parser.Parse(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrParseQuery, err)
	}
	a, err := e.parser.Parse(ctx, answer)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrParseAnswer, err)
	}

	res := Match(q.Phrases, a.Phrases, a.Sentences, e.threshold)
	res.AnswerSentences = sentenceTexts(answer, a.Sentences)

	e.logger.Debug("keywords extracted",
		"query_phrases", len(q.Phrases),
		"answer_phrases", len(a.Phrases),
		"pairs", len(res.Pairs))
	return res, nil
}

func sentenceTexts(text string, spans []core.Span) []string {
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		start := min(max(s.Start, 0), len(text))
		end := min(max(s.End, start), len(text))
		out = append(out, strings.TrimSpace(text[start:end]))
	}
	return out
}
