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

package evidence

import "errors"

var (
	// ErrInvalidMaxAttempts indicates a retry was configured with fewer than one attempt.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrFetcherRequired indicates no page fetcher was supplied.
	ErrFetcherRequired = errors.New("fetcher is required")

	// ErrEmbedderRequired indicates no embedder was supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidOption indicates an option was given an unusable value.
	ErrInvalidOption = errors.New("invalid aggregator option")
)
