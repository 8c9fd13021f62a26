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

package querygraph

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/poiesic/querygraph/ai"
	"github.com/poiesic/querygraph/evidence"
	"github.com/poiesic/querygraph/fetch"
	"github.com/poiesic/querygraph/keywords"
	"github.com/poiesic/querygraph/rank"
	"github.com/poiesic/querygraph/research"
	"github.com/poiesic/querygraph/websearch"
	"gopkg.in/yaml.v3"
)

// Config is the file form of every tunable setting.
type Config struct {
	AI       AIConfig       `yaml:"ai"`
	Search   SearchConfig   `yaml:"search"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Research ResearchConfig `yaml:"research"`
	Storage  StorageConfig  `yaml:"storage"`
}

// AIConfig selects the language and embedding models.
type AIConfig struct {
	Backend        string  `yaml:"backend"`
	EmbeddingHost  string  `yaml:"embedding_host"`
	ChatHost       string  `yaml:"chat_host"`
	EmbeddingModel string  `yaml:"embedding_model"`
	ChatModel      string  `yaml:"chat_model"`
	APIKey         string  `yaml:"api_key,omitempty"`
	InitialPrompt  string  `yaml:"initial_prompt"`
	Temperature    float64 `yaml:"temperature"`
}

// SearchConfig configures the web search API.
type SearchConfig struct {
	APIKey            string  `yaml:"api_key,omitempty"`
	EngineID          string  `yaml:"engine_id"`
	Endpoint          string  `yaml:"endpoint,omitempty"`
	ResultsPerQuery   int     `yaml:"results_per_query"`
	Concurrency       int     `yaml:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// FetchConfig configures page retrieval.
type FetchConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	BodyLimit         int64         `yaml:"body_limit"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	UserAgent         string        `yaml:"user_agent,omitempty"`
}

// ResearchConfig configures the pipeline itself.
type ResearchConfig struct {
	Nodes            int     `yaml:"nodes"`
	ContextWindow    int     `yaml:"context_window"`
	Resolution       int     `yaml:"resolution"`
	PoolSize         int     `yaml:"pool_size"`
	KeywordThreshold float64 `yaml:"keyword_threshold"`
	RankTarget       string  `yaml:"rank_target"`
	Classify         bool    `yaml:"classify"`
}

// StorageConfig configures the on-disk cache and report archive.
// An empty Path disables both.
type StorageConfig struct {
	Path            string        `yaml:"path"`
	PageTTL         time.Duration `yaml:"page_ttl"`
	CacheEmbeddings bool          `yaml:"cache_embeddings"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	aiCfg := ai.DefaultConfig()
	return &Config{
		AI: AIConfig{
			Backend:        string(aiCfg.Backend),
			EmbeddingHost:  aiCfg.EmbeddingHost,
			ChatHost:       aiCfg.ChatHost,
			EmbeddingModel: aiCfg.EmbeddingModel,
			ChatModel:      aiCfg.ChatModel,
			InitialPrompt:  aiCfg.InitialPrompt,
			Temperature:    aiCfg.Temperature,
		},
		Search: SearchConfig{
			ResultsPerQuery:   research.DefaultResultsPerQuery,
			Concurrency:       websearch.DefaultConcurrency,
			RequestsPerSecond: float64(websearch.DefaultRate),
			Burst:             websearch.DefaultBurst,
		},
		Fetch: FetchConfig{
			Timeout:           fetch.DefaultTimeout,
			BodyLimit:         fetch.DefaultBodyLimit,
			RequestsPerSecond: float64(fetch.DefaultHostRate),
			Burst:             fetch.DefaultHostBurst,
		},
		Research: ResearchConfig{
			Nodes:            research.DefaultNodes,
			ContextWindow:    evidence.DefaultContextWindow,
			Resolution:       rank.DefaultResolution,
			KeywordThreshold: keywords.DefaultThreshold,
			RankTarget:       string(research.RankByQuery),
		},
		Storage: StorageConfig{
			PageTTL:         24 * time.Hour,
			CacheEmbeddings: true,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file
// yields the defaults; fields absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks the settings that cannot be corrected by defaults.
func (c *Config) Validate() error {
	if c.Research.Nodes < 1 {
		return fmt.Errorf("%w: research.nodes must be positive", ErrInvalidConfig)
	}
	if c.Research.ContextWindow < 0 {
		return fmt.Errorf("%w: research.context_window must not be negative", ErrInvalidConfig)
	}
	switch research.RankTarget(c.Research.RankTarget) {
	case research.RankByQuery, research.RankByAnswer:
	default:
		return fmt.Errorf("%w: research.rank_target must be query or answer", ErrInvalidConfig)
	}
	if c.Search.ResultsPerQuery < 1 {
		return fmt.Errorf("%w: search.results_per_query must be positive", ErrInvalidConfig)
	}
	if c.Storage.PageTTL < 0 {
		return fmt.Errorf("%w: storage.page_ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}

// AIConfig converts the file settings into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithBackend(ai.Backend(c.AI.Backend)),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithChatHost(c.AI.ChatHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithChatModel(c.AI.ChatModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithInitialPrompt(c.AI.InitialPrompt),
		ai.WithTemperature(c.AI.Temperature),
	)
}
