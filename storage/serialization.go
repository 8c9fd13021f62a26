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

package storage

import (
	"fmt"
	"slices"
	"time"

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/querygraph/core"
)

// Serializers for every persisted type. Field order is the wire format;
// append new fields at the end of a struct serializer.
var (
	VectorMUS      mus.Serializer[[]float32]           = sliceSer[float32]{elem: raw.Float32}
	TimeMUS        mus.Serializer[time.Time]           = timeSer{}
	KeywordPairMUS mus.Serializer[core.KeywordPair]    = keywordPairSer{}
	URLRecordMUS   mus.Serializer[*core.URLRecord]     = urlRecordSer{}
	EvidenceMUS    mus.Serializer[*core.Evidence]      = evidenceSer{}
	TimingsMUS     mus.Serializer[core.Timings]        = timingsSer{}
	ReportMUS      mus.Serializer[*core.Report]        = reportSer{}
	SummaryMUS     mus.Serializer[*core.ReportSummary] = summarySer{}
	CachedPageMUS  mus.Serializer[*CachedPage]         = cachedPageSer{}
	ReportIndexMUS mus.Serializer[*ReportIndex]        = reportIndexSer{}
)

// ReportIndex is the lightweight record kept alongside each archived report
// for listing and similarity search without decoding the full report.
type ReportIndex struct {
	Summary     *core.ReportSummary
	QueryVector []float32
}

// Marshal serializes v with s into a new buffer.
func Marshal[T any](s mus.Serializer[T], v T) []byte {
	buf := make([]byte, s.Size(v))
	s.Marshal(v, buf)
	return buf
}

// Unmarshal deserializes a value with s, wrapping failures in ErrSerializationFailed.
func Unmarshal[T any](s mus.Serializer[T], data []byte) (T, error) {
	v, _, err := s.Unmarshal(data)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return v, nil
}

// MarshalVector serializes an embedding vector to bytes.
func MarshalVector(v []float32) []byte {
	return Marshal(VectorMUS, v)
}

// UnmarshalVector deserializes an embedding vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	return Unmarshal(VectorMUS, data)
}

// MarshalReport serializes a Report to bytes.
func MarshalReport(report *core.Report) []byte {
	return Marshal(ReportMUS, report)
}

// UnmarshalReport deserializes a Report from bytes.
func UnmarshalReport(data []byte) (*core.Report, error) {
	return Unmarshal(ReportMUS, data)
}

// MarshalCachedPage serializes a CachedPage to bytes.
func MarshalCachedPage(page *CachedPage) []byte {
	return Marshal(CachedPageMUS, page)
}

// UnmarshalCachedPage deserializes a CachedPage from bytes.
func UnmarshalCachedPage(data []byte) (*CachedPage, error) {
	return Unmarshal(CachedPageMUS, data)
}

// MarshalReportIndex serializes a ReportIndex to bytes.
func MarshalReportIndex(idx *ReportIndex) []byte {
	return Marshal(ReportIndexMUS, idx)
}

// UnmarshalReportIndex deserializes a ReportIndex from bytes.
func UnmarshalReportIndex(data []byte) (*ReportIndex, error) {
	return Unmarshal(ReportIndexMUS, data)
}

// sliceSer encodes a length prefix followed by each element.
type sliceSer[T any] struct {
	elem mus.Serializer[T]
}

func (s sliceSer[T]) Marshal(v []T, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, e := range v {
		n += s.elem.Marshal(e, bs[n:])
	}
	return
}

func (s sliceSer[T]) Unmarshal(bs []byte) (v []T, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	// Every element takes at least one byte.
	if length < 0 || length > len(bs)-n {
		err = ErrTruncatedData
		return
	}
	v = make([]T, length)
	var m int
	for i := range v {
		v[i], m, err = s.elem.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
	}
	return
}

func (s sliceSer[T]) Size(v []T) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, e := range v {
		size += s.elem.Size(e)
	}
	return
}

func (s sliceSer[T]) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

var (
	stringsMUS  = sliceSer[string]{elem: ord.String}
	float64sMUS = sliceSer[float64]{elem: raw.Float64}
	boolsMUS    = sliceSer[bool]{elem: ord.Bool}
	pairsMUS    = sliceSer[core.KeywordPair]{elem: keywordPairSer{}}
	urlsMUS     = sliceSer[*core.URLRecord]{elem: urlRecordSer{}}
	evidenceMUS = sliceSer[*core.Evidence]{elem: evidenceSer{}}
)

// timeSer stores a time as UTC microseconds since the Unix epoch.
type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeSer) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type durationSer struct{}

func (durationSer) Marshal(d time.Duration, bs []byte) int {
	return varint.Int64.Marshal(int64(d), bs)
}

func (durationSer) Unmarshal(bs []byte) (time.Duration, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	return time.Duration(v), n, err
}

func (durationSer) Size(d time.Duration) int {
	return varint.Int64.Size(int64(d))
}

func (durationSer) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type keywordPairSer struct{}

func (keywordPairSer) Marshal(p core.KeywordPair, bs []byte) (n int) {
	n = ord.String.Marshal(p.QueryPhrase, bs)
	n += ord.String.Marshal(p.AnswerPhrase, bs[n:])
	return
}

func (keywordPairSer) Unmarshal(bs []byte) (p core.KeywordPair, n int, err error) {
	p.QueryPhrase, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var m int
	p.AnswerPhrase, m, err = ord.String.Unmarshal(bs[n:])
	n += m
	return
}

func (keywordPairSer) Size(p core.KeywordPair) int {
	return ord.String.Size(p.QueryPhrase) + ord.String.Size(p.AnswerPhrase)
}

func (s keywordPairSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// urlRecordSer writes the record's queries in sorted order.
type urlRecordSer struct{}

func (urlRecordSer) Marshal(r *core.URLRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.URL, bs)
	n += stringsMUS.Marshal(r.QueryList(), bs[n:])
	return
}

func (urlRecordSer) Unmarshal(bs []byte) (r *core.URLRecord, n int, err error) {
	r = &core.URLRecord{}
	r.URL, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	queries, m, err := stringsMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	r.Queries = make(map[core.SearchQuery]struct{}, len(queries))
	for _, q := range queries {
		r.Queries[core.SearchQuery(q)] = struct{}{}
	}
	return
}

func (urlRecordSer) Size(r *core.URLRecord) int {
	return ord.String.Size(r.URL) + stringsMUS.Size(r.QueryList())
}

func (s urlRecordSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type evidenceSer struct{}

func (evidenceSer) Marshal(e *core.Evidence, bs []byte) (n int) {
	n = ord.String.Marshal(e.URL, bs)
	n += varint.Int.Marshal(e.Position, bs[n:])
	n += ord.String.Marshal(e.Sentence, bs[n:])
	n += ord.String.Marshal(e.Context, bs[n:])
	n += VectorMUS.Marshal(e.Vector, bs[n:])
	n += raw.Float64.Marshal(e.Similarity, bs[n:])
	n += float64sMUS.Marshal(e.Relevance, bs[n:])
	n += boolsMUS.Marshal(e.Relevant, bs[n:])
	n += ord.String.Marshal(string(e.Relation), bs[n:])
	return
}

func (evidenceSer) Unmarshal(bs []byte) (e *core.Evidence, n int, err error) {
	e = &core.Evidence{}
	var m int
	step := func(f func([]byte) (int, error)) {
		if err != nil {
			return
		}
		m, err = f(bs[n:])
		n += m
	}
	step(func(b []byte) (k int, err error) { e.URL, k, err = ord.String.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { e.Position, k, err = varint.Int.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { e.Sentence, k, err = ord.String.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { e.Context, k, err = ord.String.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { e.Vector, k, err = VectorMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { e.Similarity, k, err = raw.Float64.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { e.Relevance, k, err = float64sMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { e.Relevant, k, err = boolsMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) {
		var rel string
		rel, k, err = ord.String.Unmarshal(b)
		e.Relation = core.Relation(rel)
		return
	})
	return
}

func (evidenceSer) Size(e *core.Evidence) int {
	return ord.String.Size(e.URL) +
		varint.Int.Size(e.Position) +
		ord.String.Size(e.Sentence) +
		ord.String.Size(e.Context) +
		VectorMUS.Size(e.Vector) +
		raw.Float64.Size(e.Similarity) +
		float64sMUS.Size(e.Relevance) +
		boolsMUS.Size(e.Relevant) +
		ord.String.Size(string(e.Relation))
}

func (s evidenceSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type timingsSer struct{}

func (timingsSer) fields(t *core.Timings) []*time.Duration {
	return []*time.Duration{&t.Answer, &t.Keywords, &t.Search, &t.Aggregate, &t.Link, &t.Classify, &t.Total}
}

func (s timingsSer) Marshal(t core.Timings, bs []byte) (n int) {
	for _, d := range s.fields(&t) {
		n += durationSer{}.Marshal(*d, bs[n:])
	}
	return
}

func (s timingsSer) Unmarshal(bs []byte) (t core.Timings, n int, err error) {
	var m int
	for _, d := range s.fields(&t) {
		*d, m, err = durationSer{}.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
	}
	return
}

func (s timingsSer) Size(t core.Timings) (size int) {
	for _, d := range s.fields(&t) {
		size += durationSer{}.Size(*d)
	}
	return
}

func (s timingsSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// sentenceIndexSer writes map entries in key order so equal maps encode identically.
type sentenceIndexSer struct{}

func (sentenceIndexSer) Marshal(m map[string]int, bs []byte) (n int) {
	keys := sortedKeys(m)
	n = varint.PositiveInt.Marshal(len(keys), bs)
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += varint.Int.Marshal(m[k], bs[n:])
	}
	return
}

func (sentenceIndexSer) Unmarshal(bs []byte) (m map[string]int, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs)-n {
		err = ErrTruncatedData
		return
	}
	m = make(map[string]int, length)
	var (
		k     string
		v, sz int
	)
	for i := 0; i < length; i++ {
		k, sz, err = ord.String.Unmarshal(bs[n:])
		n += sz
		if err != nil {
			return
		}
		v, sz, err = varint.Int.Unmarshal(bs[n:])
		n += sz
		if err != nil {
			return
		}
		m[k] = v
	}
	return
}

func (sentenceIndexSer) Size(m map[string]int) (size int) {
	size = varint.PositiveInt.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k) + varint.Int.Size(v)
	}
	return
}

func (s sentenceIndexSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func queryStrings(qs []core.SearchQuery) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = string(q)
	}
	return out
}

type reportSer struct{}

func (reportSer) Marshal(r *core.Report, bs []byte) (n int) {
	n = ord.String.Marshal(r.ID, bs)
	n += ord.String.Marshal(r.Query, bs[n:])
	n += VectorMUS.Marshal(r.QueryVector, bs[n:])
	n += ord.String.Marshal(r.Answer, bs[n:])
	n += stringsMUS.Marshal(r.AnswerSentences, bs[n:])
	n += pairsMUS.Marshal(r.Keywords, bs[n:])
	n += sentenceIndexSer{}.Marshal(r.SentenceIndex, bs[n:])
	n += stringsMUS.Marshal(queryStrings(r.Queries), bs[n:])
	n += urlsMUS.Marshal(r.URLs, bs[n:])
	n += evidenceMUS.Marshal(r.Evidence, bs[n:])
	n += TimingsMUS.Marshal(r.Timings, bs[n:])
	n += TimeMUS.Marshal(r.CreatedAt, bs[n:])
	return
}

func (reportSer) Unmarshal(bs []byte) (r *core.Report, n int, err error) {
	r = &core.Report{}
	var (
		m       int
		queries []string
	)
	step := func(f func([]byte) (int, error)) {
		if err != nil {
			return
		}
		m, err = f(bs[n:])
		n += m
	}
	step(func(b []byte) (k int, err error) { r.ID, k, err = ord.String.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.Query, k, err = ord.String.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.QueryVector, k, err = VectorMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.Answer, k, err = ord.String.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.AnswerSentences, k, err = stringsMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.Keywords, k, err = pairsMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.SentenceIndex, k, err = sentenceIndexSer{}.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { queries, k, err = stringsMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.URLs, k, err = urlsMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.Evidence, k, err = evidenceMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.Timings, k, err = TimingsMUS.Unmarshal(b); return })
	step(func(b []byte) (k int, err error) { r.CreatedAt, k, err = TimeMUS.Unmarshal(b); return })
	if err != nil {
		return
	}
	r.Queries = make([]core.SearchQuery, len(queries))
	for i, q := range queries {
		r.Queries[i] = core.SearchQuery(q)
	}
	return
}

func (reportSer) Size(r *core.Report) int {
	return ord.String.Size(r.ID) +
		ord.String.Size(r.Query) +
		VectorMUS.Size(r.QueryVector) +
		ord.String.Size(r.Answer) +
		stringsMUS.Size(r.AnswerSentences) +
		pairsMUS.Size(r.Keywords) +
		sentenceIndexSer{}.Size(r.SentenceIndex) +
		stringsMUS.Size(queryStrings(r.Queries)) +
		urlsMUS.Size(r.URLs) +
		evidenceMUS.Size(r.Evidence) +
		TimingsMUS.Size(r.Timings) +
		TimeMUS.Size(r.CreatedAt)
}

func (s reportSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type summarySer struct{}

func (summarySer) Marshal(s *core.ReportSummary, bs []byte) (n int) {
	n = ord.String.Marshal(s.ID, bs)
	n += ord.String.Marshal(s.Query, bs[n:])
	n += varint.PositiveInt.Marshal(s.EvidenceCount, bs[n:])
	n += TimeMUS.Marshal(s.CreatedAt, bs[n:])
	return
}

func (summarySer) Unmarshal(bs []byte) (s *core.ReportSummary, n int, err error) {
	s = &core.ReportSummary{}
	var m int
	if s.ID, m, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += m
	if s.Query, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if s.EvidenceCount, m, err = varint.PositiveInt.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	s.CreatedAt, m, err = TimeMUS.Unmarshal(bs[n:])
	n += m
	return
}

func (summarySer) Size(s *core.ReportSummary) int {
	return ord.String.Size(s.ID) +
		ord.String.Size(s.Query) +
		varint.PositiveInt.Size(s.EvidenceCount) +
		TimeMUS.Size(s.CreatedAt)
}

func (ss summarySer) Skip(bs []byte) (n int, err error) {
	_, n, err = ss.Unmarshal(bs)
	return
}

type cachedPageSer struct{}

func (cachedPageSer) Marshal(p *CachedPage, bs []byte) (n int) {
	n = ord.String.Marshal(p.URL, bs)
	n += ord.String.Marshal(p.Content, bs[n:])
	n += TimeMUS.Marshal(p.FetchedAt, bs[n:])
	return
}

func (cachedPageSer) Unmarshal(bs []byte) (p *CachedPage, n int, err error) {
	p = &CachedPage{}
	var m int
	if p.URL, m, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += m
	if p.Content, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	p.FetchedAt, m, err = TimeMUS.Unmarshal(bs[n:])
	n += m
	return
}

func (cachedPageSer) Size(p *CachedPage) int {
	return ord.String.Size(p.URL) + ord.String.Size(p.Content) + TimeMUS.Size(p.FetchedAt)
}

func (s cachedPageSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type reportIndexSer struct{}

func (reportIndexSer) Marshal(idx *ReportIndex, bs []byte) (n int) {
	n = SummaryMUS.Marshal(idx.Summary, bs)
	n += VectorMUS.Marshal(idx.QueryVector, bs[n:])
	return
}

func (reportIndexSer) Unmarshal(bs []byte) (idx *ReportIndex, n int, err error) {
	idx = &ReportIndex{}
	if idx.Summary, n, err = SummaryMUS.Unmarshal(bs); err != nil {
		return
	}
	var m int
	idx.QueryVector, m, err = VectorMUS.Unmarshal(bs[n:])
	n += m
	return
}

func (reportIndexSer) Size(idx *ReportIndex) int {
	return SummaryMUS.Size(idx.Summary) + VectorMUS.Size(idx.QueryVector)
}

func (s reportIndexSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
