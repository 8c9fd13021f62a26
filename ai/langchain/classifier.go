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

	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/core"
	"github.com/tmc/langchaingo/llms"
)

// Classifier implements ai.RelationClassifier with a chat model in JSON mode.
type Classifier struct {
	client llms.Model
	logger *slog.Logger
}

type relationResponse struct {
	Relation string `json:"relation"`
}

func newClassifier(client llms.Model) *Classifier {
	return &Classifier{
		client: client,
		logger: slog.Default().With("component", "langchain-classifier"),
	}
}

// NewClassifier creates a new relation classifier using the provided configuration.
//
// Returns ai.RelationClassifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.RelationClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newClassifier(client), nil
}

// Classify labels premise against hypothesis.
func (c *Classifier) Classify(ctx context.Context, premise, hypothesis string) (core.Relation, error) {
	var resp relationResponse
	if err := generateJSON(ctx, c.client, c.logger, relationPrompt, relationInput(premise, hypothesis), &resp); err != nil {
		return core.RelationNone, err
	}
	rel, ok := ai.ParseRelation(resp.Relation)
	if !ok {
		return core.RelationNone, fmt.Errorf("%w: %q", ErrUnknownRelation, resp.Relation)
	}
	return rel, nil
}
