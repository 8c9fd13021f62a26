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

package research

import "errors"

var (
	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrSearcherRequired is returned when a web searcher is not provided.
	ErrSearcherRequired = errors.New("web searcher required")

	// ErrFetcherRequired is returned when a page fetcher is not provided.
	ErrFetcherRequired = errors.New("page fetcher required")

	// ErrInvalidNodeCount is returned when fewer than one evidence item is requested.
	ErrInvalidNodeCount = errors.New("node count must be positive")

	// ErrAnswer wraps failures of the initial answer request.
	ErrAnswer = errors.New("initial answer failed")

	// ErrEmbedding wraps failures embedding the query or the answer.
	ErrEmbedding = errors.New("embedding failed")

	// ErrSearch wraps web search failures.
	ErrSearch = errors.New("web search failed")

	// ErrInvalidOption indicates an option was given an unusable value.
	ErrInvalidOption = errors.New("invalid research option")
)
