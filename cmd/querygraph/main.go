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

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/querygraph"
	"github.com/urfave/cli/v2"
)

const logFileKey = "logFile"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "querygraph",
		Usage: "Check a language model's answer against evidence from the web",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "querygraph.yaml",
				EnvVars: []string{"QUERYGRAPH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Append logs to this file",
				Value: "querygraph.log",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "debug",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB cache and report archive (overrides storage.path)",
				EnvVars: []string{"QUERYGRAPH_DB"},
			},
		},
		Before: setupLogger,
		After:  closeLogger,
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Usage:  "Research a question",
				Action: askCommand,
				Flags:  askFlags(),
			},
			{
				Name:   "history",
				Usage:  "List archived research runs",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list (0 for all)",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "like",
						Usage: "List runs whose query resembles this text instead",
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum query similarity for --like",
						Value: 0.6,
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Print an archived research run",
				ArgsUsage: "ID",
				Action:    showCommand,
			},
			{
				Name:      "delete",
				Usage:     "Remove an archived research run",
				ArgsUsage: "ID",
				Action:    deleteCommand,
			},
		},
	}
}

func askFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Question to research (prompted for when absent)",
		},
		&cli.IntFlag{
			Name:    "nodes",
			Aliases: []string{"n"},
			Usage:   "Number of evidence sentences to return (prompted for when absent)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "AI backend (openai or ollama)",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Host URL for both chat and embedding services",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for OpenAI-compatible backends",
			EnvVars: []string{"QUERYGRAPH_AI_API_KEY", "OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "search-api-key",
			Usage:   "Google Custom Search API key",
			EnvVars: []string{"GOOGLE_SEARCH_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "search-engine-id",
			Usage:   "Google programmable search engine ID",
			EnvVars: []string{"GOOGLE_SEARCH_ENGINE_ID"},
		},
		&cli.IntFlag{
			Name:  "context-window",
			Usage: "Sentences of context on each side of an evidence sentence",
		},
		&cli.StringFlag{
			Name:  "rank-target",
			Usage: "Rank evidence against the query or the answer",
		},
		&cli.BoolFlag{
			Name:  "classify",
			Usage: "Label evidence as entailment, contradiction or neutral",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Show page progress on stderr",
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	var out io.Writer = io.Discard
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		if c.App.Metadata == nil {
			c.App.Metadata = make(map[string]any)
		}
		c.App.Metadata[logFileKey] = f
		out = f
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

func closeLogger(c *cli.Context) error {
	if f, ok := c.App.Metadata[logFileKey].(*os.File); ok {
		delete(c.App.Metadata, logFileKey)
		return f.Close()
	}
	return nil
}

// loadConfig reads the config file and applies any flags set on the command line.
func loadConfig(c *cli.Context) (*querygraph.Config, error) {
	cfg, err := querygraph.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	strOverrides := []struct {
		flag   string
		target *string
	}{
		{"db", &cfg.Storage.Path},
		{"backend", &cfg.AI.Backend},
		{"chat-model", &cfg.AI.ChatModel},
		{"embedding-model", &cfg.AI.EmbeddingModel},
		{"api-key", &cfg.AI.APIKey},
		{"search-api-key", &cfg.Search.APIKey},
		{"search-engine-id", &cfg.Search.EngineID},
		{"rank-target", &cfg.Research.RankTarget},
	}
	for _, o := range strOverrides {
		if c.IsSet(o.flag) {
			*o.target = c.String(o.flag)
		}
	}
	if c.IsSet("host") {
		cfg.AI.EmbeddingHost = c.String("host")
		cfg.AI.ChatHost = c.String("host")
	}
	if c.IsSet("context-window") {
		cfg.Research.ContextWindow = c.Int("context-window")
	}
	if c.IsSet("classify") {
		cfg.Research.Classify = c.Bool("classify")
	}
	return cfg, cfg.Validate()
}

func openEngine(c *cli.Context, opts ...querygraph.EngineOption) (*querygraph.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return querygraph.NewEngine(context.Background(), cfg, opts...)
}
