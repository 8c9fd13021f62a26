package evidence

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/querygraph/ai/mock"
	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var target = []float32{1, 0}

// topicEmbedder embeds sentences mentioning the moon along the target axis,
// the sun at 0.6 similarity, and everything else orthogonally.
func topicEmbedder() *mock.MockEmbedder {
	emb := mock.NewMockEmbedder()
	emb.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			switch {
			case strings.Contains(text, "moon"):
				out[i] = []float32{1, 0}
			case strings.Contains(text, "sun"):
				out[i] = []float32{0.6, 0.8}
			default:
				out[i] = []float32{0, 1}
			}
		}
		return out, nil
	}
	return emb
}

func pages(content map[string]string) fetch.Fetcher {
	return fetch.FetcherFunc(func(ctx context.Context, url string) (string, bool) {
		c, ok := content[url]
		return c, ok
	})
}

func records(urls ...string) []*core.URLRecord {
	out := make([]*core.URLRecord, len(urls))
	for i, u := range urls {
		out[i] = &core.URLRecord{URL: u, Queries: map[core.SearchQuery]struct{}{"a AND b": {}}}
	}
	return out
}

func newTestAggregator(t *testing.T, f fetch.Fetcher, emb *mock.MockEmbedder, opts ...Option) *Aggregator {
	t.Helper()
	opts = append([]Option{WithPoolSize(4), WithRetry(3, time.Millisecond)}, opts...)
	agg, err := NewAggregator(f, emb, opts...)
	require.NoError(t, err)
	t.Cleanup(agg.Release)
	return agg
}

func TestAggregate_RanksAcrossPages(t *testing.T) {
	f := pages(map[string]string{
		"https://a.example": "The moon is bright. Cats sleep a lot.",
		"https://b.example": "The sun is hot. We went to the moon.",
	})
	agg := newTestAggregator(t, f, topicEmbedder())

	res, err := agg.Aggregate(context.Background(), records("https://a.example", "https://b.example"), target, 3)
	require.NoError(t, err)
	require.Len(t, res.Evidence, 3)
	assert.Equal(t, 4, res.Scored)

	assert.Equal(t, "https://a.example", res.Evidence[0].URL)
	assert.Equal(t, "The moon is bright.", res.Evidence[0].Sentence)
	assert.Equal(t, "https://b.example", res.Evidence[1].URL)
	assert.Equal(t, 1, res.Evidence[1].Position)
	assert.Equal(t, "The sun is hot.", res.Evidence[2].Sentence)
	assert.InDelta(t, 0.6, res.Evidence[2].Similarity, 1e-6)

	for i := 1; i < len(res.Evidence); i++ {
		assert.GreaterOrEqual(t, res.Evidence[i-1].Similarity, res.Evidence[i].Similarity)
	}
	require.Len(t, res.Pages, 2)
	assert.Equal(t, []string{"a AND b"}, res.Pages[0].Queries)
}

func TestAggregate_NumNodesAboveTotal(t *testing.T) {
	f := pages(map[string]string{"https://a.example": "One moon. Two suns."})
	agg := newTestAggregator(t, f, topicEmbedder())

	res, err := agg.Aggregate(context.Background(), records("https://a.example"), target, 50)
	require.NoError(t, err)
	assert.Len(t, res.Evidence, 2)
}

func TestAggregate_FetchFailureSkipped(t *testing.T) {
	f := pages(map[string]string{"https://ok.example": "The moon rose."})
	agg := newTestAggregator(t, f, topicEmbedder())

	res, err := agg.Aggregate(context.Background(), records("https://down.example", "https://ok.example"), target, 10)
	require.NoError(t, err)
	require.Len(t, res.Evidence, 1)
	assert.Equal(t, "https://ok.example", res.Evidence[0].URL)
	assert.False(t, res.Pages[0].HasContent)
	assert.Empty(t, res.Pages[0].Sentences)
	assert.True(t, res.Pages[1].HasContent)
}

func TestAggregate_EmptyInputs(t *testing.T) {
	agg := newTestAggregator(t, pages(map[string]string{"https://e.example": ""}), topicEmbedder())

	res, err := agg.Aggregate(context.Background(), nil, target, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Evidence)

	res, err = agg.Aggregate(context.Background(), records("https://e.example"), target, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Evidence)
	assert.True(t, res.Pages[0].HasContent)
}

func TestAggregate_ContextWindow(t *testing.T) {
	content := "First moon. Second moon. Third moon. Fourth moon. Fifth moon."
	agg := newTestAggregator(t, pages(map[string]string{"https://p.example": content}), topicEmbedder(), WithContextWindow(2))

	res, err := agg.Aggregate(context.Background(), records("https://p.example"), target, 5)
	require.NoError(t, err)
	require.Len(t, res.Evidence, 5)

	byPos := make(map[int]*core.Evidence)
	for _, e := range res.Evidence {
		byPos[e.Position] = e
	}
	assert.Equal(t, "First moon. Second moon. Third moon.", byPos[0].Context)
	assert.Equal(t, content, byPos[2].Context)
	assert.Equal(t, "Third moon. Fourth moon. Fifth moon.", byPos[4].Context)
}

func TestAggregate_EmbeddingRetryAndFailure(t *testing.T) {
	var mu sync.Mutex
	calls := make(map[string]int)
	emb := mock.NewMockEmbedder()
	emb.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		mu.Lock()
		calls[texts[0]]++
		n := calls[texts[0]]
		mu.Unlock()
		switch {
		case strings.HasPrefix(texts[0], "Broken"):
			return nil, errors.New("embedding service down")
		case strings.HasPrefix(texts[0], "Flaky") && n < 2:
			return nil, errors.New("temporary")
		}
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = []float32{1, 0}
		}
		return out, nil
	}
	f := pages(map[string]string{
		"https://broken.example": "Broken page.",
		"https://flaky.example":  "Flaky page.",
	})
	agg := newTestAggregator(t, f, emb)

	res, err := agg.Aggregate(context.Background(), records("https://broken.example", "https://flaky.example"), target, 10)
	require.NoError(t, err)
	require.Len(t, res.Evidence, 1)
	assert.Equal(t, "https://flaky.example", res.Evidence[0].URL)
	assert.Equal(t, 3, calls["Broken page."])
	assert.Equal(t, 2, calls["Flaky page."])
}

func TestAggregate_Batches(t *testing.T) {
	emb := topicEmbedder()
	content := "A moon. B moon. C moon. D moon. E moon."
	agg := newTestAggregator(t, pages(map[string]string{"https://p.example": content}), emb, WithBatchSize(2))

	res, err := agg.Aggregate(context.Background(), records("https://p.example"), target, 10)
	require.NoError(t, err)
	assert.Len(t, res.Evidence, 5)
	assert.Equal(t, 3, emb.CallCount())
}

func TestAggregate_ProgressAndCallback(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)
	var mu sync.Mutex
	seen := make(map[string]int)

	f := pages(map[string]string{"https://a.example": "Moon one. Moon two."})
	agg := newTestAggregator(t, f, topicEmbedder(),
		WithProgress(tracker),
		WithPageFunc(func(page *core.Page, scored int) {
			mu.Lock()
			defer mu.Unlock()
			seen[page.URL] = scored
		}))

	_, err := agg.Aggregate(context.Background(), records("https://a.example", "https://b.example"), target, 10)
	require.NoError(t, err)

	snap := tracker.Snapshot()
	assert.Equal(t, 2, snap.Pages)
	assert.Equal(t, 1, snap.WithContent)
	assert.Equal(t, 2, snap.Sentences)
	assert.Contains(t, buf.String(), "2/2")
	assert.Equal(t, map[string]int{"https://a.example": 2, "https://b.example": 0}, seen)
}

func TestAggregate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	agg := newTestAggregator(t, pages(map[string]string{"https://a.example": "Moon."}), topicEmbedder())

	_, err := agg.Aggregate(ctx, records("https://a.example"), target, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewAggregator_Validation(t *testing.T) {
	_, err := NewAggregator(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrFetcherRequired)

	_, err = NewAggregator(pages(nil), nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewAggregator(pages(nil), mock.NewMockEmbedder(), WithContextWindow(-1))
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = NewAggregator(pages(nil), mock.NewMockEmbedder(), WithRetry(0, 0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}
