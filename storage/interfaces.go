package storage

import (
	"context"
	"time"

	"github.com/poiesic/querygraph/core"
)

// EmbeddingCache stores embedding vectors keyed by model and text.
type EmbeddingCache interface {
	// GetEmbeddings returns one entry per text, nil where the cache has no
	// vector for that text under model.
	GetEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error)

	// PutEmbeddings stores vectors[i] for texts[i] under model.
	// Returns ErrLengthMismatch if the slices differ in length.
	PutEmbeddings(ctx context.Context, model string, texts []string, vectors [][]float32) error
}

// CachedPage is extracted page text and when it was fetched.
type CachedPage struct {
	URL       string
	Content   string
	FetchedAt time.Time
}

// PageCache stores the extracted text of fetched pages keyed by URL.
// Only successful fetches are cached.
type PageCache interface {
	// GetPage returns the cached page or ErrNotFound.
	GetPage(ctx context.Context, url string) (*CachedPage, error)

	// PutPage caches content for url, stamped with the current time.
	PutPage(ctx context.Context, url, content string) error
}

// ReportRepository archives completed research runs.
type ReportRepository interface {
	// SaveReport stores a report under its ID, replacing any previous version.
	SaveReport(ctx context.Context, report *core.Report) error

	// GetReport returns the report with the given ID or ErrNotFound.
	GetReport(ctx context.Context, id string) (*core.Report, error)

	// ListReports returns up to limit report summaries, most recent first.
	ListReports(ctx context.Context, limit int) ([]*core.ReportSummary, error)

	// FindSimilarReports scores archived reports by the dot product of their
	// query vector with vector. Returns matches with score >= minSimilarity,
	// up to limit results, highest score first.
	FindSimilarReports(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ReportMatch, error)

	// DeleteReport removes a report. Returns ErrNotFound if it doesn't exist.
	DeleteReport(ctx context.Context, id string) error
}

// Store combines every storage concern behind one lifecycle.
type Store interface {
	EmbeddingCache
	PageCache
	ReportRepository

	// Close closes the storage backend and releases resources.
	Close() error
}
