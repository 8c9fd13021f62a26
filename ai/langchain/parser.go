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

package langchain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/segment"
	"github.com/tmc/langchaingo/llms"
)

// Parser implements ai.Parser. Noun phrases come from a chat model,
// vectors from an Embedder, and sentence spans from package segment.
type Parser struct {
	client   llms.Model
	embedder ai.Embedder
	logger   *slog.Logger
}

type nounPhraseResponse struct {
	NounPhrases []string `json:"noun_phrases"`
}

func newParser(client llms.Model, embedder ai.Embedder) *Parser {
	return &Parser{
		client:   client,
		embedder: embedder,
		logger:   slog.Default().With("component", "langchain-parser"),
	}
}

// NewParser creates a new parser using the provided configuration and embedder.
//
// Returns ai.Parser interface to enforce abstraction.
func NewParser(config *ai.Config, embedder ai.Embedder) (ai.Parser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newParser(client, embedder), nil
}

// Parse finds the noun phrases of text with their offsets and embeddings.
func (p *Parser) Parse(ctx context.Context, text string) (*core.ParsedText, error) {
	_, spans := segment.Sentences(text)
	parsed := &core.ParsedText{Phrases: []core.NounPhrase{}, Sentences: spans}
	if strings.TrimSpace(text) == "" {
		return parsed, nil
	}

	var resp nounPhraseResponse
	if err := generateJSON(ctx, p.client, p.logger, nounPhrasePrompt, text, &resp); err != nil {
		return nil, err
	}

	phrases := locatePhrases(text, resp.NounPhrases)
	if dropped := len(resp.NounPhrases) - len(phrases); dropped > 0 {
		p.logger.Debug("dropped phrases not found in text", "dropped", dropped)
	}
	if len(phrases) == 0 {
		return parsed, nil
	}

	texts := make([]string, len(phrases))
	for i, ph := range phrases {
		texts[i] = ph.Text
	}
	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding noun phrases: %w", err)
	}
	if len(vectors) != len(phrases) {
		return nil, fmt.Errorf("%w: %d phrases, %d vectors", ErrEmbeddingCount, len(phrases), len(vectors))
	}
	for i := range phrases {
		phrases[i].Vector = vectors[i]
	}
	parsed.Phrases = phrases
	return parsed, nil
}

// locatePhrases finds each candidate in text, scanning forward from the end
// of the previous match. Matching falls back to case-insensitive, and then
// to a search from the start of the text for phrases the model listed out
// of order. Candidates that do not occur at all are dropped. The returned
// Text is the text as written, not the model's rendering.
func locatePhrases(text string, candidates []string) []core.NounPhrase {
	out := make([]core.NounPhrase, 0, len(candidates))
	cursor := 0
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		start := indexFold(text, c, cursor)
		if start < 0 {
			start = indexFold(text, c, 0)
		}
		if start < 0 {
			continue
		}
		end := start + len(c)
		out = append(out, core.NounPhrase{Text: text[start:end], Start: start, End: end})
		if end > cursor {
			cursor = end
		}
	}
	return out
}

// indexFold returns the byte offset of the first occurrence of substr in
// s at or after from, preferring an exact match over a case-insensitive one.
func indexFold(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	if i := strings.Index(s[from:], substr); i >= 0 {
		return from + i
	}
	for i := from; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
