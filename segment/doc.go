// Package segment splits prose into sentences.
//
// Split is a deterministic, rule-based sentence boundary detector. Periods
// that belong to titles, acronyms, initials, decimal numbers, website
// suffixes, ellipses and company suffixes are protected before true
// terminators are marked, so "Dr. Smith went to Washington. He won." yields
// two sentences rather than three.
//
// Locate maps the sentences produced by Split back to byte spans of the
// original text, which phrase parsers use to assign phrases to sentences.
package segment
