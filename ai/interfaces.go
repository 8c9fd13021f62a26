package ai

import (
	"context"

	"github.com/poiesic/querygraph/core"
)

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Parser finds the noun phrases and sentences of a text.
// Implementations must be thread-safe for concurrent use.
type Parser interface {
	// Parse returns the noun phrases of text with their embeddings and
	// byte offsets, plus the byte spans of its sentences. A text with no
	// noun phrases yields an empty Phrases slice and no error.
	Parse(ctx context.Context, text string) (*core.ParsedText, error)
}

// Answerer produces a free-text answer to a prompt.
type Answerer interface {
	// Ask sends prompt to the language model and returns its answer.
	Ask(ctx context.Context, prompt string) (string, error)
}

// RelationClassifier labels how a piece of evidence relates to a hypothesis.
type RelationClassifier interface {
	// Classify returns entailment, contradiction or neutral for premise
	// against hypothesis.
	Classify(ctx context.Context, premise, hypothesis string) (core.Relation, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// All services it returns share configuration and are safe for concurrent use.
type AIProvider interface {
	Embedder() Embedder
	Parser() Parser
	Answerer() Answerer
	Classifier() RelationClassifier

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
