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
	"regexp"
	"strings"
)

// Private-use code points stand in for protected periods and sentence stops
// while the rules run.
const (
	prd  = "\uE000"
	stop = "\uE001"
)

const (
	alphabets = `([A-Za-z])`
	prefixes  = `(Mr|St|Mrs|Ms|Dr)[.]`
	suffixes  = `(Inc|Ltd|Jr|Sr|Co)`
	starters  = `(Mr|Mrs|Ms|Dr|Prof|Capt|Cpt|Lt|He\s|She\s|It\s|They\s|Their\s|Our\s|We\s|But\s|However\s|That\s|This\s|Wherever)`
	acronyms  = `([A-Z][.][A-Z][.](?:[A-Z][.])?)`
	websites  = `[.](com|net|org|io|gov|edu|me)`
	digits    = `([0-9])`
)

var (
	prefixRe         = regexp.MustCompile(prefixes)
	websiteRe        = regexp.MustCompile(websites)
	decimalRe        = regexp.MustCompile(digits + `[.]` + digits)
	multipleDotsRe   = regexp.MustCompile(`\.{2,}`)
	initialRe        = regexp.MustCompile(`\s` + alphabets + `[.] `)
	acronymStarterRe = regexp.MustCompile(acronyms + ` ` + starters)
	threeLetterRe    = regexp.MustCompile(alphabets + `[.]` + alphabets + `[.]` + alphabets + `[.]`)
	twoLetterRe      = regexp.MustCompile(alphabets + `[.]` + alphabets + `[.]`)
	suffixStarterRe  = regexp.MustCompile(` ` + suffixes + `[.] ` + starters)
	suffixRe         = regexp.MustCompile(` ` + suffixes + `[.]`)
	singleLetterRe   = regexp.MustCompile(` ` + alphabets + `[.]`)
)

var quoteSwapper = strings.NewReplacer(
	".”", "”.",
	".\"", "\".",
	"!\"", "\"!",
	"?\"", "\"?",
)

var stopMarker = strings.NewReplacer(
	".", "."+stop,
	"?", "?"+stop,
	"!", "!"+stop,
)

// Split divides text into sentences. The result is deterministic and each
// sentence is trimmed of surrounding whitespace. Empty input yields no
// sentences.
func Split(text string) []string {
	text = " " + text + "  "
	text = strings.ReplaceAll(text, "\n", " ")
	text = prefixRe.ReplaceAllString(text, "${1}"+prd)
	text = websiteRe.ReplaceAllString(text, prd+"${1}")
	text = decimalRe.ReplaceAllString(text, "${1}"+prd+"${2}")
	text = multipleDotsRe.ReplaceAllStringFunc(text, func(dots string) string {
		return strings.Repeat(prd, len(dots)) + stop
	})
	text = strings.ReplaceAll(text, "Ph.D.", "Ph"+prd+"D"+prd)
	text = initialRe.ReplaceAllString(text, " ${1}"+prd+" ")
	text = acronymStarterRe.ReplaceAllString(text, "${1}"+stop+" ${2}")
	text = threeLetterRe.ReplaceAllString(text, "${1}"+prd+"${2}"+prd+"${3}"+prd)
	text = twoLetterRe.ReplaceAllString(text, "${1}"+prd+"${2}"+prd)
	text = suffixStarterRe.ReplaceAllString(text, " ${1}"+prd+stop+" ${2}")
	text = suffixRe.ReplaceAllString(text, " ${1}"+prd)
	text = singleLetterRe.ReplaceAllString(text, " ${1}"+prd)
	text = quoteSwapper.Replace(text)
	text = stopMarker.Replace(text)
	text = strings.ReplaceAll(text, prd, ".")

	parts := strings.Split(text, stop)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		sentences = append(sentences, strings.TrimSpace(p))
	}
	if n := len(sentences); n > 0 && sentences[n-1] == "" {
		sentences = sentences[:n-1]
	}
	return sentences
}
