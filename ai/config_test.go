package ai

import (
	"testing"

	"github.com/poiesic/querygraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, BackendOpenAI, cfg.Backend)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "qwen2.5:3b", cfg.ChatModel)
	assert.Equal(t, DefaultInitialPrompt, cfg.InitialPrompt)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.ChatHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithChatHost("http://chat:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://chat:9090/v1", cfg.ChatHost)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithBackend(BackendOllama),
			WithEmbeddingModel("nomic-embed-text"),
			WithChatModel("llama3"),
			WithAPIKey("secret"),
			WithInitialPrompt("Be brief."),
			WithTemperature(0.7),
		)

		assert.Equal(t, BackendOllama, cfg.Backend)
		assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
		assert.Equal(t, "llama3", cfg.ChatModel)
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, "Be brief.", cfg.InitialPrompt)
		assert.Equal(t, 0.7, cfg.Temperature)
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		host    string
		want    string
	}{
		{"openai adds v1", BackendOpenAI, "http://localhost:11434", "http://localhost:11434/v1"},
		{"openai trailing slash", BackendOpenAI, "http://localhost:11434/", "http://localhost:11434/v1"},
		{"openai keeps v1", BackendOpenAI, "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"ollama strips v1", BackendOllama, "http://localhost:11434/v1", "http://localhost:11434"},
		{"ollama plain", BackendOllama, "http://localhost:11434", "http://localhost:11434"},
		{"empty backend treated as openai", "", "http://h", "http://h/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Backend: tt.backend, EmbeddingHost: tt.host, ChatHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.ChatHost)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad backend", func(c *Config) { c.Backend = "grpc" }, "Backend"},
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }, "EmbeddingHost"},
		{"missing chat host", func(c *Config) { c.ChatHost = "" }, "ChatHost"},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }, "EmbeddingModel"},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }, "ChatModel"},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, "Temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		label  string
		want   core.Relation
		wantOK bool
	}{
		{"entailment", core.RelationEntailment, true},
		{" Contradiction\n", core.RelationContradiction, true},
		{"NEUTRAL", core.RelationNeutral, true},
		{"maybe", core.RelationNone, false},
		{"", core.RelationNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseRelation(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
