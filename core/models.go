package core

import (
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for cached and archived entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Query is the user's natural-language question and its embedding.
type Query struct {
	Text   string
	Vector []float32
}

// Span is a half-open byte range [Start, End) into a text.
type Span struct {
	Start int
	End   int
}

// NounPhrase is a noun-headed phrase found in a text, with its embedding
// and byte offsets into the text it was parsed from.
type NounPhrase struct {
	Text   string
	Vector []float32
	Start  int
	End    int
}

// ParsedText is the result of running a text through a phrase parser.
type ParsedText struct {
	Phrases   []NounPhrase
	Sentences []Span
}

// KeywordPair pairs a query phrase with the answer phrase closest to it.
// Two pairs are equal regardless of order; the order is kept for query generation.
type KeywordPair struct {
	QueryPhrase  string
	AnswerPhrase string
}

// Key returns an order-insensitive key for set membership.
func (p KeywordPair) Key() string {
	a, b := p.QueryPhrase, p.AnswerPhrase
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Equal reports whether two pairs hold the same two phrases in any order.
func (p KeywordPair) Equal(other KeywordPair) bool {
	return p.Key() == other.Key()
}

// Operator joins the two phrases of a search query.
type Operator string

const (
	// OperatorAnd requires both phrases.
	OperatorAnd Operator = "AND"
	// OperatorOr accepts either phrase.
	OperatorOr Operator = "OR"
)

// SearchQuery is a boolean web search string built from a KeywordPair.
type SearchQuery string

// NewSearchQuery joins the pair's phrases with the given operator.
func NewSearchQuery(pair KeywordPair, op Operator) SearchQuery {
	return SearchQuery(pair.QueryPhrase + " " + string(op) + " " + pair.AnswerPhrase)
}

// URLRecord maps a URL to the search queries that returned it.
type URLRecord struct {
	URL     string
	Queries map[SearchQuery]struct{}
}

// QueryList returns the record's queries sorted lexically.
func (r *URLRecord) QueryList() []string {
	out := make([]string, 0, len(r.Queries))
	for q := range r.Queries {
		out = append(out, string(q))
	}
	slices.Sort(out)
	return out
}

// Page is a fetched web page split into sentences.
// A page whose fetch failed has HasContent false and no sentences.
type Page struct {
	URL        string
	Queries    []string
	Content    string
	HasContent bool
	Sentences  []string
}

// Context returns the sentence at position surrounded by up to window
// sentences on each side, clamped at the page boundaries.
func (p *Page) Context(position, window int) string {
	if position < 0 || position >= len(p.Sentences) {
		return ""
	}
	if window < 0 {
		window = 0
	}
	start := max(0, position-window)
	end := min(len(p.Sentences), position+window+1)
	parts := make([]string, 0, end-start)
	for _, s := range p.Sentences[start:end] {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Relation is the entailment label of an evidence sentence against the answer.
type Relation string

const (
	RelationNone          Relation = ""
	RelationEntailment    Relation = "entailment"
	RelationContradiction Relation = "contradiction"
	RelationNeutral       Relation = "neutral"
)

// Evidence is a scored sentence harvested from a page.
type Evidence struct {
	URL        string
	Position   int       // Sentence index within the page
	Sentence   string
	Context    string    // Sentence with its surrounding window, for display
	Vector     []float32 // Embedding of the sentence alone
	Similarity float64   // In [0,1], higher is more similar
	Relevance  []float64 // Dot product with each answer sentence (populated by linking)
	Relevant   []bool    // Answer sentences flagged relevant to this item (populated by linking)
	Relation   Relation  // Optional relation to the answer (populated by classification)
}

// RelevantIndices returns the indices of answer sentences flagged relevant.
func (e *Evidence) RelevantIndices() []int {
	var out []int
	for i, ok := range e.Relevant {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// Timings records how long each research stage took.
type Timings struct {
	Answer    time.Duration
	Keywords  time.Duration
	Search    time.Duration
	Aggregate time.Duration
	Link      time.Duration
	Classify  time.Duration
	Total     time.Duration
}

// Report is the outcome of one research run.
type Report struct {
	ID              string
	Query           string
	QueryVector     []float32
	Answer          string
	AnswerSentences []string
	Keywords        []KeywordPair
	SentenceIndex   map[string]int // Answer phrase -> answer sentence index
	Queries         []SearchQuery
	URLs            []*URLRecord
	Evidence        []*Evidence
	Timings         Timings
	CreatedAt       time.Time
}

// Summary returns the listing form of the report.
func (r *Report) Summary() *ReportSummary {
	return &ReportSummary{
		ID:            r.ID,
		Query:         r.Query,
		EvidenceCount: len(r.Evidence),
		CreatedAt:     r.CreatedAt,
	}
}

// ReportSummary is the lightweight listing form of an archived report.
type ReportSummary struct {
	ID            string
	Query         string
	EvidenceCount int
	CreatedAt     time.Time
}

// ReportMatch is an archived report scored against a query vector.
type ReportMatch struct {
	Summary *ReportSummary
	Score   float32
}
