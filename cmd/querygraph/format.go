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

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/poiesic/querygraph/core"
)

const timeLayout = "2006-01-02 15:04"

// ordinal returns n with its English ordinal suffix: 1st, 2nd, 3rd, 4th,
// 11th, 12th, 13th, 21st.
func ordinal(n int) string {
	s := strconv.Itoa(n)
	abs := n
	if abs < 0 {
		abs = -abs
	}
	if abs%100 >= 11 && abs%100 <= 13 {
		return s + "th"
	}
	switch abs % 10 {
	case 1:
		return s + "st"
	case 2:
		return s + "nd"
	case 3:
		return s + "rd"
	default:
		return s + "th"
	}
}

func printReport(w io.Writer, r *core.Report) {
	fmt.Fprintf(w, "Query: %s\n", r.Query)
	fmt.Fprintf(w, "Answer: %s\n", r.Answer)
	if len(r.Keywords) > 0 {
		fmt.Fprintf(w, "Searched %d queries, %d pages\n", len(r.Queries), len(r.URLs))
	}

	fmt.Fprint(w, "\n\nContent from the web:\n")
	if len(r.Evidence) == 0 {
		fmt.Fprintln(w, "No evidence found.")
	}
	for i, e := range r.Evidence {
		fmt.Fprintf(w, "%s most similar sentence. Similarity: %.4f", ordinal(i+1), e.Similarity)
		if e.Relation != core.RelationNone {
			fmt.Fprintf(w, " [%s]", e.Relation)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, e.Context)
		fmt.Fprintf(w, "Source: %s\n", e.URL)

		fmt.Fprintln(w, "Most relevant answer sentences:")
		for _, idx := range e.RelevantIndices() {
			if idx < len(r.AnswerSentences) {
				fmt.Fprintf(w, "  - %s\n", r.AnswerSentences[idx])
			}
		}
		fmt.Fprint(w, "\n\n")
	}

	fmt.Fprintf(w, "Run %s finished in %s (answer %s, search %s, pages %s)\n",
		r.ID,
		r.Timings.Total.Round(time.Millisecond),
		r.Timings.Answer.Round(time.Millisecond),
		r.Timings.Search.Round(time.Millisecond),
		r.Timings.Aggregate.Round(time.Millisecond))
}
