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
	"log/slog"

	"github.com/poiesic/querygraph/ai"
)

// Provider implements ai.AIProvider over langchaingo clients.
// The parser, answerer and classifier share one chat client.
type Provider struct {
	config     *ai.Config
	embedder   ai.Embedder
	parser     *Parser
	answerer   *Answerer
	classifier *Classifier
	logger     *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithEmbedder replaces the provider's embedder, for example with a caching
// decorator around it. The parser embeds phrases through the replacement.
func WithEmbedder(wrap func(ai.Embedder) ai.Embedder) ProviderOption {
	return func(p *Provider) {
		p.embedder = wrap(p.embedder)
	}
}

// NewProvider creates a new AI provider for the configured backend.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	chat, err := newChatModel(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config:   config,
		embedder: embedder,
		logger:   slog.Default().With("component", "langchain-provider", "backend", config.Backend),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.parser = newParser(chat, p.embedder)
	p.answerer = newAnswerer(config, chat)
	p.classifier = newClassifier(chat)
	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Parser returns the noun phrase parser.
func (p *Provider) Parser() ai.Parser {
	return p.parser
}

// Answerer returns the answer generator.
func (p *Provider) Answerer() ai.Answerer {
	return p.answerer
}

// Classifier returns the relation classifier.
func (p *Provider) Classifier() ai.RelationClassifier {
	return p.classifier
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing provider")
	return nil
}
