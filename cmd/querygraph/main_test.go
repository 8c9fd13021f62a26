package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/querygraph"
	"github.com/poiesic/querygraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 10: "10th",
		11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd",
		23: "23rd", 101: "101st", 111: "111th", 112: "112th",
	}
	for n, want := range tests {
		assert.Equal(t, want, ordinal(n), "ordinal(%d)", n)
	}
}

func TestParseNodes(t *testing.T) {
	assert.Equal(t, 50, parseNodes("50\n"))
	assert.Equal(t, 25, parseNodes(""))
	assert.Equal(t, 25, parseNodes("lots"))
	assert.Equal(t, 25, parseNodes("-3"))
	assert.Equal(t, 25, parseNodes("0"))
}

func TestPrompts(t *testing.T) {
	var out bytes.Buffer

	in := bufio.NewReader(strings.NewReader("\n\n"))
	assert.Equal(t, defaultQuery, promptQuery(in, &out))
	assert.Equal(t, 25, promptNodes(in, &out))
	assert.Contains(t, out.String(), "Enter query: ")
	assert.Contains(t, out.String(), "Enter number of nodes")

	in = bufio.NewReader(strings.NewReader("Is the earth round?\n40\n"))
	assert.Equal(t, "Is the earth round?", promptQuery(in, &out))
	assert.Equal(t, 40, promptNodes(in, &out))

	in = bufio.NewReader(strings.NewReader(""))
	assert.Equal(t, defaultQuery, promptQuery(in, &out), "EOF falls back to default")
}

func TestSetupLogger(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	require.NoError(t, os.WriteFile(logPath, []byte("existing line\n"), 0o644))

	app := newApp()
	app.Writer = &bytes.Buffer{}
	args := []string{"querygraph", "--log-file", logPath, "--db", filepath.Join(dir, "db"), "history"}
	require.NoError(t, app.Run(args))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "existing line\n"), "log file is appended to")

	app = newApp()
	err = app.Run([]string{"querygraph", "--log-file", logPath, "--log-level", "loud", "history"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestHistoryAndShow(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	dbPath := filepath.Join(dir, "db")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"querygraph", "--log-file", logPath, "--db", dbPath, "history"}))
	assert.Contains(t, out.String(), "ID")
	assert.Contains(t, out.String(), "QUERY")

	app = newApp()
	err := app.Run([]string{"querygraph", "--log-file", logPath, "--db", dbPath, "show"})
	assert.ErrorContains(t, err, "report ID is required")

	app = newApp()
	err = app.Run([]string{"querygraph", "--log-file", logPath, "--db", dbPath, "show", "missing"})
	assert.Error(t, err)
}

func TestHistoryWithoutArchive(t *testing.T) {
	dir := t.TempDir()
	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"querygraph", "--log-file", filepath.Join(dir, "test.log"), "--config", filepath.Join(dir, "none.yaml"), "history"})
	assert.ErrorIs(t, err, querygraph.ErrNoArchive)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "qg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ai:\n  chat_model: from-file\nresearch:\n  nodes: 40\n"), 0o600))

	var got *querygraph.Config
	app := newApp()
	app.Commands = []*cli.Command{{
		Name:  "probe",
		Flags: askFlags(),
		Action: func(c *cli.Context) error {
			var err error
			got, err = loadConfig(c)
			return err
		},
	}}
	t.Setenv("GOOGLE_SEARCH_API_KEY", "env-key")
	args := []string{"querygraph", "--log-file", filepath.Join(dir, "test.log"), "--config", cfgPath, "--db", "/tmp/x",
		"probe", "--host", "http://gpu:8000", "--embedding-model", "nomic", "--classify", "--rank-target", "answer"}
	require.NoError(t, app.Run(args))

	assert.Equal(t, "from-file", got.AI.ChatModel)
	assert.Equal(t, "nomic", got.AI.EmbeddingModel)
	assert.Equal(t, "http://gpu:8000", got.AI.ChatHost)
	assert.Equal(t, "http://gpu:8000", got.AI.EmbeddingHost)
	assert.Equal(t, "env-key", got.Search.APIKey)
	assert.Equal(t, "/tmp/x", got.Storage.Path)
	assert.Equal(t, 40, got.Research.Nodes)
	assert.Equal(t, "answer", got.Research.RankTarget)
	assert.True(t, got.Research.Classify)
}

func TestPrintReport(t *testing.T) {
	report := &core.Report{
		ID:              "run-1",
		Query:           "Who was first on the moon?",
		Answer:          "Neil Armstrong. He landed in 1969.",
		AnswerSentences: []string{"Neil Armstrong.", "He landed in 1969."},
		Evidence: []*core.Evidence{
			{URL: "https://a.example", Context: "Armstrong stepped out first.", Similarity: 0.91, Relevant: []bool{true, false}, Relation: core.RelationEntailment},
			{URL: "https://b.example", Context: "Apollo 11 landed in 1969.", Similarity: 0.72, Relevant: []bool{false, true}},
		},
		Timings: core.Timings{Total: 3 * time.Second},
	}

	var out bytes.Buffer
	printReport(&out, report)
	s := out.String()
	assert.Contains(t, s, "Answer: Neil Armstrong. He landed in 1969.")
	assert.Contains(t, s, "1st most similar sentence. Similarity: 0.9100 [entailment]")
	assert.Contains(t, s, "2nd most similar sentence. Similarity: 0.7200\n")
	assert.Contains(t, s, "  - He landed in 1969.")
	assert.Contains(t, s, "Source: https://a.example")
	assert.Contains(t, s, "Run run-1 finished in 3s")

	out.Reset()
	printReport(&out, &core.Report{ID: "empty", Query: "q"})
	assert.Contains(t, out.String(), "No evidence found.")
}
