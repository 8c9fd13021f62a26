package storage

import (
	"testing"
	"time"

	"github.com/poiesic/querygraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *core.Report {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &core.Report{
		ID:              "run-1",
		Query:           "Who was the first person to walk on the moon?",
		QueryVector:     []float32{0.1, -0.2, 0.3},
		Answer:          "Neil Armstrong. He landed in 1969.",
		AnswerSentences: []string{"Neil Armstrong.", "He landed in 1969."},
		Keywords: []core.KeywordPair{
			{QueryPhrase: "the first person", AnswerPhrase: "Neil Armstrong"},
			{QueryPhrase: "the moon", AnswerPhrase: "the moon"},
		},
		SentenceIndex: map[string]int{"Neil Armstrong": 0, "the moon": 1},
		Queries:       []core.SearchQuery{"the first person AND Neil Armstrong", "the first person OR Neil Armstrong"},
		URLs: []*core.URLRecord{{
			URL: "https://example.com/apollo",
			Queries: map[core.SearchQuery]struct{}{
				"the first person AND Neil Armstrong": {},
				"the first person OR Neil Armstrong":  {},
			},
		}},
		Evidence: []*core.Evidence{{
			URL:        "https://example.com/apollo",
			Position:   3,
			Sentence:   "Armstrong stepped onto the surface.",
			Context:    "The hatch opened. Armstrong stepped onto the surface. He spoke.",
			Vector:     []float32{0.5, 0.5},
			Similarity: 0.87,
			Relevance:  []float64{0.9, 0.1},
			Relevant:   []bool{true, false},
			Relation:   core.RelationEntailment,
		}},
		Timings: core.Timings{
			Answer:    2 * time.Second,
			Keywords:  300 * time.Millisecond,
			Search:    time.Second,
			Aggregate: 5 * time.Second,
			Link:      time.Millisecond,
			Classify:  2 * time.Millisecond,
			Total:     9 * time.Second,
		},
		CreatedAt: now,
	}
}

func TestReportRoundTrip(t *testing.T) {
	t.Run("full report", func(t *testing.T) {
		report := sampleReport()

		decoded, err := UnmarshalReport(MarshalReport(report))
		require.NoError(t, err)
		assert.Equal(t, report, decoded)
	})

	t.Run("empty report", func(t *testing.T) {
		report := &core.Report{
			ID:            "empty",
			Query:         "q",
			SentenceIndex: map[string]int{},
			CreatedAt:     time.Unix(0, 0).UTC(),
		}

		decoded, err := UnmarshalReport(MarshalReport(report))
		require.NoError(t, err)
		assert.Equal(t, report.ID, decoded.ID)
		assert.Empty(t, decoded.Evidence)
		assert.Empty(t, decoded.Keywords)
		assert.True(t, report.CreatedAt.Equal(decoded.CreatedAt))
	})

	t.Run("sentence index encoding is deterministic", func(t *testing.T) {
		a := sampleReport()
		b := sampleReport()
		b.CreatedAt = a.CreatedAt
		assert.Equal(t, MarshalReport(a), MarshalReport(b))
	})
}

func TestUnmarshalReport_Truncated(t *testing.T) {
	data := MarshalReport(sampleReport())

	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		_, err := UnmarshalReport(data[:cut])
		assert.ErrorIs(t, err, ErrSerializationFailed, "cut at %d", cut)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0, -1.5, 3.25, 1e-7}
	decoded, err := UnmarshalVector(MarshalVector(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, decoded)

	_, err = UnmarshalVector([]byte{})
	assert.Error(t, err)
}

func TestCachedPageAndIndexRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	page := &CachedPage{URL: "https://example.com", Content: "Hello. World.", FetchedAt: now}
	gotPage, err := UnmarshalCachedPage(MarshalCachedPage(page))
	require.NoError(t, err)
	assert.Equal(t, page, gotPage)

	idx := &ReportIndex{
		Summary:     &core.ReportSummary{ID: "r", Query: "q", EvidenceCount: 12, CreatedAt: now},
		QueryVector: []float32{1, 0},
	}
	gotIdx, err := UnmarshalReportIndex(MarshalReportIndex(idx))
	require.NoError(t, err)
	assert.Equal(t, idx, gotIdx)
}
