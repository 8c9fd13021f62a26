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

import (
	"context"
	"sync"

	"github.com/poiesic/querygraph/core"
)

// DefaultAnswer is returned by MockAnswerer when no AskFunc is set.
const DefaultAnswer = "Neil Armstrong was the first person to walk on the moon. He landed in 1969."

// MockAnswerer is a test double for ai.Answerer.
type MockAnswerer struct {
	// AskFunc is called by Ask if set. If nil, Ask returns DefaultAnswer.
	AskFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

// NewMockAnswerer creates a mock answerer that returns DefaultAnswer.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Ask records the prompt and returns the configured answer.
func (m *MockAnswerer) Ask(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.AskFunc != nil {
		return m.AskFunc(ctx, prompt)
	}
	return DefaultAnswer, nil
}

// Prompts returns every prompt received so far.
func (m *MockAnswerer) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// CallCount returns the number of times Ask was called.
func (m *MockAnswerer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Reset clears recorded prompts and the injected function.
func (m *MockAnswerer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = nil
	m.AskFunc = nil
}

// MockClassifier is a test double for ai.RelationClassifier.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set. If nil, Classify returns neutral.
	ClassifyFunc func(ctx context.Context, premise, hypothesis string) (core.Relation, error)

	mu        sync.Mutex
	callCount int
}

// NewMockClassifier creates a mock classifier that labels everything neutral.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify returns the configured relation.
func (m *MockClassifier) Classify(ctx context.Context, premise, hypothesis string) (core.Relation, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, premise, hypothesis)
	}
	return core.RelationNeutral, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
