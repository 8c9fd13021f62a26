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

package langchain

import (
	"regexp"
	"strings"
)

var (
	// `{ concept": ` or `, type":` where the opening quote was dropped
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z_ ]*?)":`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// cleanResponse strips markdown code fences and any text around the
// outermost JSON object.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// repairJSON fixes formatting mistakes small models commonly make:
// keys missing their opening quote and trailing commas before a closing
// bracket or brace.
func repairJSON(s string) string {
	s = unquotedKeyRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := unquotedKeyRe.FindStringSubmatch(m)
		return sub[1] + `"` + strings.TrimSpace(sub[2]) + `":`
	})
	return trailingCommaRe.ReplaceAllString(s, "$1")
}
