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

package keywords

import (
	"math"

	"github.com/poiesic/querygraph/core"
	"github.com/poiesic/querygraph/rank"
)

// DefaultThreshold is the largest cosine distance at which an answer phrase
// is still considered to be about a query phrase.
const DefaultThreshold = 0.4

// Result is the outcome of keyword extraction.
type Result struct {
	// Pairs holds each distinct (query phrase, answer phrase) pair in the
	// order first seen.
	Pairs []core.KeywordPair

	// SentenceIndex maps a retained answer phrase to the index of the answer
	// sentence containing it.
	SentenceIndex map[string]int

	// AnswerSentences is the answer split into sentences. Filled by Extractor.
	AnswerSentences []string
}

// Match pairs every answer phrase with its nearest query phrase and keeps
// the pairs whose cosine distance is at most threshold.
//
// The nearest query phrase is the first one reaching the strict minimum
// distance. Phrases with a zero-magnitude vector never match. A retained
// phrase is mapped to the first answer sentence whose end offset is at or
// past the phrase's end offset; when the same phrase text is retained more
// than once the later occurrence's sentence wins.
func Match(queryPhrases, answerPhrases []core.NounPhrase, answerSentences []core.Span, threshold float64) Result {
	res := Result{
		Pairs:         []core.KeywordPair{},
		SentenceIndex: map[string]int{},
	}
	if len(queryPhrases) == 0 || len(answerPhrases) == 0 {
		return res
	}

	seen := make(map[string]struct{})
	for _, ap := range answerPhrases {
		best := math.Inf(1)
		bestIdx := -1
		for i, qp := range queryPhrases {
			d, ok := rank.CosineDistance(ap.Vector, qp.Vector)
			if !ok {
				continue
			}
			if d < best {
				best = d
				bestIdx = i
			}
		}
		if bestIdx < 0 || best > threshold {
			continue
		}

		pair := core.KeywordPair{QueryPhrase: queryPhrases[bestIdx].Text, AnswerPhrase: ap.Text}
		if _, dup := seen[pair.Key()]; !dup {
			seen[pair.Key()] = struct{}{}
			res.Pairs = append(res.Pairs, pair)
		}
		if idx, ok := sentenceIndex(ap, answerSentences); ok {
			res.SentenceIndex[ap.Text] = idx
		}
	}
	return res
}

// sentenceIndex returns the first sentence whose end is at or past the
// phrase end. Phrases beyond the last sentence belong to the last one.
func sentenceIndex(p core.NounPhrase, sentences []core.Span) (int, bool) {
	if len(sentences) == 0 {
		return 0, false
	}
	for i, s := range sentences {
		if s.End >= p.End {
			return i, true
		}
	}
	return len(sentences) - 1, true
}
