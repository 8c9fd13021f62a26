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

package research

import (
	"log/slog"
	"time"

	"github.com/poiesic/querygraph/core"
)

// Monitor provides hooks to observe a research run.
// PageProcessed may be called concurrently; the other hooks are called in
// stage order from the goroutine running the research.
type Monitor interface {
	Start(runID, query string)
	AfterAnswer(answer string, sentences []string)
	AfterKeywords(pairs []core.KeywordPair, queries []core.SearchQuery)
	AfterSearch(records []*core.URLRecord)
	PageProcessed(page *core.Page, scored int)
	AfterRanking(evidence []*core.Evidence)
	Finish(report *core.Report)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                                        {}
func (n *noopMonitor) AfterAnswer(_ string, _ []string)                         {}
func (n *noopMonitor) AfterKeywords(_ []core.KeywordPair, _ []core.SearchQuery) {}
func (n *noopMonitor) AfterSearch(_ []*core.URLRecord)                          {}
func (n *noopMonitor) PageProcessed(_ *core.Page, _ int)                        {}
func (n *noopMonitor) AfterRanking(_ []*core.Evidence)                          {}
func (n *noopMonitor) Finish(_ *core.Report)                                    {}

// LogMonitor writes every stage of a run to a logger.
type LogMonitor struct {
	logger *slog.Logger
	start  time.Time
}

var _ Monitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor logging at debug level, with a summary at
// info level when the run finishes.
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "research-monitor")}
}

func (m *LogMonitor) Start(runID, query string) {
	m.start = time.Now()
	m.logger = m.logger.With("run", runID)
	m.logger.Info("research started", "query", query)
}

func (m *LogMonitor) AfterAnswer(answer string, sentences []string) {
	m.logger.Debug("initial answer", "answer", answer, "sentences", len(sentences))
}

func (m *LogMonitor) AfterKeywords(pairs []core.KeywordPair, queries []core.SearchQuery) {
	for _, p := range pairs {
		m.logger.Debug("keyword pair", "query_phrase", p.QueryPhrase, "answer_phrase", p.AnswerPhrase)
	}
	m.logger.Debug("search queries built", "pairs", len(pairs), "queries", len(queries))
}

func (m *LogMonitor) AfterSearch(records []*core.URLRecord) {
	m.logger.Debug("urls collected", "count", len(records))
}

func (m *LogMonitor) PageProcessed(page *core.Page, scored int) {
	m.logger.Debug("page processed", "url", page.URL, "has_content", page.HasContent, "scored", scored)
}

func (m *LogMonitor) AfterRanking(evidence []*core.Evidence) {
	if len(evidence) == 0 {
		m.logger.Debug("no evidence ranked")
		return
	}
	m.logger.Debug("evidence ranked",
		"count", len(evidence),
		"best", evidence[0].Similarity,
		"worst", evidence[len(evidence)-1].Similarity)
}

func (m *LogMonitor) Finish(report *core.Report) {
	m.logger.Info("research finished",
		"evidence", len(report.Evidence),
		"urls", len(report.URLs),
		"elapsed", time.Since(m.start))
}
