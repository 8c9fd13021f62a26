// Package storage provides the persistence abstraction layer for querygraph.
//
// Nothing in the research pipeline requires persistence. When a database
// directory is configured, storage serves three purposes:
//
//   - EmbeddingCache: vectors keyed by model and text, so repeated runs do
//     not re-embed the same sentences
//   - PageCache: extracted page text keyed by URL, with an optional TTL
//   - ReportRepository: an archive of completed research runs that can be
//     listed, reprinted and searched by query similarity
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.Store interface:
//
//	store, err := badger.NewStore("/path/to/db")  // returns storage.Store
//
// Internal constructors may return concrete types.
//
// # Usage
//
//	store, err := badger.NewStore("/path/to/db", badger.WithPageTTL(24*time.Hour))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryStore()
//
// # Serialization
//
// Values are encoded with mus-go serializers (see serialization.go). The
// encoding is compact and not self-describing; field order is the format.
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
package storage
