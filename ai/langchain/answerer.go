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
	"log/slog"
	"strings"

	"github.com/poiesic/querygraph/ai"
	"github.com/tmc/langchaingo/llms"
)

// Answerer implements ai.Answerer with a chat model.
type Answerer struct {
	client      llms.Model
	temperature float64
	logger      *slog.Logger
}

func newAnswerer(config *ai.Config, client llms.Model) *Answerer {
	return &Answerer{
		client:      client,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "langchain-answerer"),
	}
}

// NewAnswerer creates a new answerer using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config) (ai.Answerer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newAnswerer(config, client), nil
}

// Ask sends prompt as a single human message and returns the reply text.
func (a *Answerer) Ask(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(a.temperature))
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ErrNoResponse
	}
	answer := strings.TrimSpace(response.Choices[0].Content)
	a.logger.Debug("answer generated", "length", len(answer))
	return answer, nil
}
