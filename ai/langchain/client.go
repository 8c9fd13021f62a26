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
	"fmt"

	"github.com/poiesic/querygraph/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// token returns the bearer token for OpenAI-compatible backends.
// Local services that don't require authentication accept any value.
func token(config *ai.Config) string {
	if config.APIKey != "" {
		return config.APIKey
	}
	return "none"
}

// newChatModel creates the chat client for the configured backend.
func newChatModel(config *ai.Config) (llms.Model, error) {
	switch config.Backend {
	case ai.BackendOllama:
		return ollama.New(
			ollama.WithServerURL(config.ChatHost),
			ollama.WithModel(config.ChatModel),
		)
	case ai.BackendOpenAI:
		return openai.New(
			openai.WithBaseURL(config.ChatHost),
			openai.WithToken(token(config)),
			openai.WithModel(config.ChatModel),
		)
	default:
		return nil, fmt.Errorf("unsupported backend %q", config.Backend)
	}
}

// newEmbeddingClient creates the embedding client for the configured backend.
func newEmbeddingClient(config *ai.Config) (embeddings.EmbedderClient, error) {
	switch config.Backend {
	case ai.BackendOllama:
		return ollama.New(
			ollama.WithServerURL(config.EmbeddingHost),
			ollama.WithModel(config.EmbeddingModel),
		)
	case ai.BackendOpenAI:
		return openai.New(
			openai.WithBaseURL(config.EmbeddingHost),
			openai.WithToken(token(config)),
			openai.WithEmbeddingModel(config.EmbeddingModel),
		)
	default:
		return nil, fmt.Errorf("unsupported backend %q", config.Backend)
	}
}
