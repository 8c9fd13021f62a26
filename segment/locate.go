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

package segment

import (
	"strings"

	"github.com/poiesic/querygraph/core"
)

// anchorLen is how many leading bytes of a sentence are used to find it when
// the whole sentence does not appear verbatim in the source.
const anchorLen = 24

// Locate maps each sentence to a byte span in text, scanning forward so that
// repeated sentences resolve to successive occurrences. Sentences rewritten
// by Split (quote reordering, folded newlines) are anchored on their leading
// bytes. Spans never run past the end of text.
func Locate(text string, sentences []string) []core.Span {
	spans := make([]core.Span, 0, len(sentences))
	cursor := 0
	for _, s := range sentences {
		start := indexFrom(text, s, cursor)
		if start < 0 {
			anchor := s
			if len(anchor) > anchorLen {
				anchor = anchor[:anchorLen]
			}
			start = indexFrom(text, anchor, cursor)
		}
		if start < 0 {
			start = cursor
		}
		end := min(len(text), start+len(s))
		spans = append(spans, core.Span{Start: start, End: end})
		cursor = end
	}
	return spans
}

// Sentences splits text and locates each sentence in one step.
func Sentences(text string) ([]string, []core.Span) {
	sentences := Split(text)
	return sentences, Locate(text, sentences)
}

func indexFrom(text, sub string, from int) int {
	if sub == "" || from > len(text) {
		return -1
	}
	i := strings.Index(text[from:], sub)
	if i < 0 {
		return -1
	}
	return from + i
}
