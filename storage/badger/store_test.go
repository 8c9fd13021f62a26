package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) storage.Store {
	t.Helper()
	store, err := NewMemoryStore(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEmbeddingCache(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("miss then hit", func(t *testing.T) {
		got, err := store.GetEmbeddings(ctx, "m1", []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, [][]float32{nil, nil}, got)

		require.NoError(t, store.PutEmbeddings(ctx, "m1", []string{"a"}, [][]float32{{1, 2}}))

		got, err = store.GetEmbeddings(ctx, "m1", []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2}, got[0])
		assert.Nil(t, got[1])
	})

	t.Run("models are isolated", func(t *testing.T) {
		require.NoError(t, store.PutEmbeddings(ctx, "m2", []string{"x"}, [][]float32{{3}}))

		got, err := store.GetEmbeddings(ctx, "m3", []string{"x"})
		require.NoError(t, err)
		assert.Nil(t, got[0])
	})

	t.Run("length mismatch", func(t *testing.T) {
		err := store.PutEmbeddings(ctx, "m1", []string{"a", "b"}, [][]float32{{1}})
		assert.ErrorIs(t, err, storage.ErrLengthMismatch)
	})
}

func TestPageCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.GetPage(ctx, "https://example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, store.PutPage(ctx, "https://example.com", "Hello."))
		page, err := store.GetPage(ctx, "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "Hello.", page.Content)
		assert.WithinDuration(t, time.Now(), page.FetchedAt, time.Minute)
	})

	t.Run("negative ttl rejected", func(t *testing.T) {
		_, err := NewMemoryStore(WithPageTTL(-time.Second))
		assert.ErrorIs(t, err, storage.ErrInvalidOption)
	})
}

func makeReport(id string, createdAt time.Time, vec []float32) *core.Report {
	return &core.Report{
		ID:          id,
		Query:       "query " + id,
		QueryVector: vec,
		Answer:      "answer",
		Evidence: []*core.Evidence{
			{URL: "https://example.com", Position: 0, Sentence: "s", Similarity: 0.5},
		},
		SentenceIndex: map[string]int{},
		CreatedAt:     createdAt,
	}
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and get", func(t *testing.T) {
		store := newTestStore(t)
		report := makeReport("r1", base, []float32{1, 0})

		require.NoError(t, store.SaveReport(ctx, report))
		got, err := store.GetReport(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, report.Query, got.Query)
		assert.Len(t, got.Evidence, 1)
	})

	t.Run("get missing", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.GetReport(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("invalid report rejected", func(t *testing.T) {
		store := newTestStore(t)
		err := store.SaveReport(ctx, &core.Report{ID: "x"})
		assert.ErrorIs(t, err, core.ErrInvalidReport)
	})

	t.Run("list most recent first", func(t *testing.T) {
		store := newTestStore(t)
		for i := 0; i < 5; i++ {
			r := makeReport(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Hour), nil)
			require.NoError(t, store.SaveReport(ctx, r))
		}

		all, err := store.ListReports(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "r4", all[0].ID)
		assert.Equal(t, "r0", all[4].ID)
		assert.Equal(t, 1, all[0].EvidenceCount)

		some, err := store.ListReports(ctx, 2)
		require.NoError(t, err)
		require.Len(t, some, 2)
		assert.Equal(t, "r3", some[1].ID)
	})

	t.Run("resave moves date index", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SaveReport(ctx, makeReport("a", base, nil)))
		require.NoError(t, store.SaveReport(ctx, makeReport("b", base.Add(time.Hour), nil)))
		require.NoError(t, store.SaveReport(ctx, makeReport("a", base.Add(2*time.Hour), nil)))

		all, err := store.ListReports(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "a", all[0].ID)
		assert.Equal(t, "b", all[1].ID)
	})

	t.Run("find similar", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SaveReport(ctx, makeReport("near", base, []float32{1, 0})))
		require.NoError(t, store.SaveReport(ctx, makeReport("mid", base, []float32{0.6, 0.8})))
		require.NoError(t, store.SaveReport(ctx, makeReport("far", base, []float32{0, 1})))
		require.NoError(t, store.SaveReport(ctx, makeReport("none", base, nil)))

		matches, err := store.FindSimilarReports(ctx, []float32{1, 0}, 0.5, 10)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "near", matches[0].Summary.ID)
		assert.Equal(t, "mid", matches[1].Summary.ID)

		matches, err = store.FindSimilarReports(ctx, []float32{1, 0}, 0, 1)
		require.NoError(t, err)
		assert.Len(t, matches, 1)

		_, err = store.FindSimilarReports(ctx, []float32{1, 0}, 0, 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})

	t.Run("delete", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SaveReport(ctx, makeReport("r", base, nil)))
		require.NoError(t, store.DeleteReport(ctx, "r"))

		_, err := store.GetReport(ctx, "r")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		all, err := store.ListReports(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, all)

		assert.ErrorIs(t, store.DeleteReport(ctx, "r"), storage.ErrNotFound)
	})
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err = store.GetReport(ctx, "x")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.PutPage(ctx, "u", "c"), storage.ErrStorageClosed)
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveReport(ctx, makeReport("kept", time.Now().UTC(), nil)))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.GetReport(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.ID)
}
