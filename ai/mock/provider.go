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

package mock

import "github.com/poiesic/querygraph/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates one mock of each service.
type MockProvider struct {
	embedder   *MockEmbedder
	parser     *MockParser
	answerer   *MockAnswerer
	classifier *MockClassifier
	closed     bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use the GetMock* accessors to reach the concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		parser:     NewMockParser(),
		answerer:   NewMockAnswerer(),
		classifier: NewMockClassifier(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// Nil arguments are replaced with default mocks.
func NewMockProviderWithServices(embedder *MockEmbedder, parser *MockParser, answerer *MockAnswerer, classifier *MockClassifier) *MockProvider {
	p := &MockProvider{embedder: embedder, parser: parser, answerer: answerer, classifier: classifier}
	if p.embedder == nil {
		p.embedder = NewMockEmbedder()
	}
	if p.parser == nil {
		p.parser = NewMockParser()
	}
	if p.answerer == nil {
		p.answerer = NewMockAnswerer()
	}
	if p.classifier == nil {
		p.classifier = NewMockClassifier()
	}
	return p
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Parser returns the mock parser.
func (p *MockProvider) Parser() ai.Parser {
	return p.parser
}

// Answerer returns the mock answerer.
func (p *MockProvider) Answerer() ai.Answerer {
	return p.answerer
}

// Classifier returns the mock relation classifier.
func (p *MockProvider) Classifier() ai.RelationClassifier {
	return p.classifier
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockParser returns the underlying mock parser for test assertions.
func (p *MockProvider) GetMockParser() *MockParser {
	return p.parser
}

// GetMockAnswerer returns the underlying mock answerer for test assertions.
func (p *MockProvider) GetMockAnswerer() *MockAnswerer {
	return p.answerer
}

// GetMockClassifier returns the underlying mock classifier for test assertions.
func (p *MockProvider) GetMockClassifier() *MockClassifier {
	return p.classifier
}
