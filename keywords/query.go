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
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/querygraph/core"
)

// BuildQueries expands every pair into an AND and an OR search query.
// The result is deduplicated and sorted.
func BuildQueries(pairs []core.KeywordPair) []core.SearchQuery {
	set := make(map[core.SearchQuery]struct{}, 2*len(pairs))
	for _, p := range pairs {
		set[core.NewSearchQuery(p, core.OperatorAnd)] = struct{}{}
		set[core.NewSearchQuery(p, core.OperatorOr)] = struct{}{}
	}
	out := make([]core.SearchQuery, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	slices.Sort(out)
	return out
}

// ParseQuery recovers the pair and operator a search query was built from.
// The first operator occurrence splits the query, so phrases that
// themselves contain " AND " or " OR " are split at the earliest one.
func ParseQuery(q core.SearchQuery) (core.KeywordPair, core.Operator, error) {
	s := string(q)
	bestAt, bestOp := -1, core.Operator("")
	for _, op := range []core.Operator{core.OperatorAnd, core.OperatorOr} {
		if i := strings.Index(s, " "+string(op)+" "); i >= 0 && (bestAt < 0 || i < bestAt) {
			bestAt, bestOp = i, op
		}
	}
	if bestAt < 0 {
		return core.KeywordPair{}, "", fmt.Errorf("%w: %q", ErrMalformedQuery, s)
	}
	sep := len(bestOp) + 2
	return core.KeywordPair{
		QueryPhrase:  s[:bestAt],
		AnswerPhrase: s[bestAt+sep:],
	}, bestOp, nil
}
