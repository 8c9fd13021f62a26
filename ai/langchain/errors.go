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

import "errors"

var (
	// ErrNoResponse is returned when the model returns no choices.
	ErrNoResponse = errors.New("model returned no response")

	// ErrMalformedResponse is returned when the model's JSON cannot be parsed after retries.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrUnknownRelation is returned when the classifier answers with an unknown label.
	ErrUnknownRelation = errors.New("unknown relation label")

	// ErrEmbeddingCount is returned when the embedder returns a different number of vectors than texts.
	ErrEmbeddingCount = errors.New("embedding count mismatch")
)
