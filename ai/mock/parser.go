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
	"strings"
	"sync"
	"unicode"

	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/segment"
)

// MockParser is a test double for ai.Parser.
// It allows custom behavior injection via function fields.
type MockParser struct {
	// ParseFunc is called by Parse if set.
	// If nil, every word of three or more letters is treated as a noun
	// phrase embedded with Vector.
	ParseFunc func(ctx context.Context, text string) (*core.ParsedText, error)

	mu        sync.Mutex
	callCount int
}

// NewMockParser creates a mock parser with default word-level behavior.
func NewMockParser() *MockParser {
	return &MockParser{}
}

// Parse returns the configured result or the default word phrases.
func (m *MockParser) Parse(ctx context.Context, text string) (*core.ParsedText, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ParseFunc != nil {
		return m.ParseFunc(ctx, text)
	}

	_, spans := segment.Sentences(text)
	parsed := &core.ParsedText{Phrases: []core.NounPhrase{}, Sentences: spans}
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := strings.ToLower(text[start:end])
		if len(word) >= 3 {
			parsed.Phrases = append(parsed.Phrases, core.NounPhrase{
				Text:   word,
				Vector: Vector(word),
				Start:  start,
				End:    end,
			})
		}
		start = -1
	}
	for i, r := range text {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return parsed, nil
}

// CallCount returns the number of times Parse was called.
func (m *MockParser) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected function.
func (m *MockParser) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ParseFunc = nil
}
