package langchain

import (
	"context"
	"testing"

	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswererAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns trimmed reply", func(t *testing.T) {
		model := &fakeModel{replies: []string{"  Neil Armstrong.\n"}}
		a := newAnswerer(ai.DefaultConfig(), model)

		got, err := a.Ask(ctx, "Who walked on the moon first?")
		require.NoError(t, err)
		assert.Equal(t, "Neil Armstrong.", got)
		require.Len(t, model.messages, 1)
		assert.Len(t, model.messages[0], 1)
	})

	t.Run("no choices", func(t *testing.T) {
		a := newAnswerer(ai.DefaultConfig(), &fakeModel{})
		_, err := a.Ask(ctx, "q")
		assert.ErrorIs(t, err, ErrNoResponse)
	})
}

func TestClassifierClassify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		reply   string
		want    core.Relation
		wantErr error
	}{
		{"entailment", `{"relation": "entailment"}`, core.RelationEntailment, nil},
		{"case and fence", "```json\n{\"relation\": \"Contradiction\"}\n```", core.RelationContradiction, nil},
		{"unknown label", `{"relation": "maybe"}`, core.RelationNone, ErrUnknownRelation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClassifier(&fakeModel{replies: []string{tt.reply}})
			got, err := c.Classify(ctx, "premise", "hypothesis")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("openai backend", func(t *testing.T) {
		p, err := NewProvider(ai.NewConfig(ai.WithHost("http://localhost:9999")))
		require.NoError(t, err)
		assert.NotNil(t, p.Embedder())
		assert.NotNil(t, p.Parser())
		assert.NotNil(t, p.Answerer())
		assert.NotNil(t, p.Classifier())
		assert.NoError(t, p.Close())
	})

	t.Run("ollama backend", func(t *testing.T) {
		p, err := NewProvider(ai.NewConfig(ai.WithBackend(ai.BackendOllama), ai.WithHost("http://localhost:9999")))
		require.NoError(t, err)
		assert.NotNil(t, p.Parser())
	})

	t.Run("embedder wrapped", func(t *testing.T) {
		var wrapped bool
		p, err := NewProvider(ai.DefaultConfig(), WithEmbedder(func(e ai.Embedder) ai.Embedder {
			wrapped = true
			return e
		}))
		require.NoError(t, err)
		assert.True(t, wrapped)
		assert.NotNil(t, p.Embedder())
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewProvider(ai.NewConfig(ai.WithChatModel("")))
		assert.Error(t, err)
	})
}
