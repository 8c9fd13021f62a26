package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/querygraph/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix   = "emb:"
	pagePrefix        = "page:"
	reportPrefix      = "rep:"
	reportIndexPrefix = "repx:"
	reportDatePrefix  = "repd:"
)

// makeEmbeddingKey generates a key for a vector by model and text.
// Format: prefix:model:hash(text)
func makeEmbeddingKey(model, text string) []byte {
	buf := make([]byte, 0, len(embeddingPrefix)+len(model)+1+8)
	buf = append(buf, embeddingPrefix...)
	buf = append(buf, model...)
	buf = append(buf, ':')
	return binary.BigEndian.AppendUint64(buf, uint64(core.IDFromContent(text)))
}

// makePageKey generates a key for a cached page by URL.
func makePageKey(url string) []byte {
	buf := make([]byte, 0, len(pagePrefix)+8)
	buf = append(buf, pagePrefix...)
	return binary.BigEndian.AppendUint64(buf, uint64(core.IDFromContent(url)))
}

// makeReportKey generates a key for a full report by ID.
func makeReportKey(id string) []byte {
	return []byte(reportPrefix + id)
}

// makeReportIndexKey generates a key for a report's summary and query vector.
func makeReportIndexKey(id string) []byte {
	return []byte(reportIndexPrefix + id)
}

// makeReportDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeReportDateKey(createdAt time.Time, id string) []byte {
	buf := make([]byte, 0, len(reportDatePrefix)+8+len(id))
	buf = append(buf, reportDatePrefix...)
	// Write in BigEndian order so lexicographic sort works correctly
	buf = binary.BigEndian.AppendUint64(buf, uint64(createdAt.UnixMicro()))
	return append(buf, id...)
}

// prefixEnd returns a key that sorts after every key with the given prefix,
// for seeking reverse iterators.
func prefixEnd(prefix string) []byte {
	return append([]byte(prefix), 0xFF)
}
