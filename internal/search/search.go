// Package search finds and replaces literal text in a document.
//
// Offsets are measured in characters (runes), not bytes. Queries are
// always literal: no character in a query has special meaning.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is a half-open span [Start, End) of character offsets.
type Match struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of characters covered by the match.
func (m Match) Len() int {
	return m.End - m.Start
}

// Options configures matching.
type Options struct {
	CaseSensitive bool
}

// Find returns every non-overlapping occurrence of query in document,
// scanning left to right. An empty query matches nothing.
func Find(document, query string, opts Options) []Match {
	if query == "" {
		return nil
	}

	haystack, needle := document, query
	if !opts.CaseSensitive {
		haystack, needle = fold(document), fold(query)
	}

	needleLen := utf8.RuneCountInString(needle)

	var matches []Match

	offset := 0 // Byte offset into haystack
	runes := 0  // Character offset of haystack[offset]

	for offset <= len(haystack) {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			break
		}

		start := runes + utf8.RuneCountInString(haystack[offset:offset+i])
		matches = append(matches, Match{Start: start, End: start + needleLen})

		offset += i + len(needle)
		runes = start + needleLen
	}

	return matches
}

// ReplaceOne returns document with the characters in m replaced.
// A span outside the document leaves it unchanged.
func ReplaceOne(document string, m Match, replacement string) string {
	chars := []rune(document)
	if m.Start < 0 || m.End < m.Start || m.End > len(chars) {
		return document
	}

	var b strings.Builder

	b.Grow(len(document) + len(replacement))
	b.WriteString(string(chars[:m.Start]))
	b.WriteString(replacement)
	b.WriteString(string(chars[m.End:]))

	return b.String()
}

// ReplaceAll replaces every occurrence of query found by Find with the
// literal replacement text and reports how many were replaced.
// Text outside the matched spans keeps its original casing.
func ReplaceAll(document, query, replacement string, opts Options) (string, int) {
	matches := Find(document, query, opts)
	if len(matches) == 0 {
		return document, 0
	}

	chars := []rune(document)

	var b strings.Builder

	b.Grow(len(document) + len(matches)*len(replacement))

	last := 0
	for _, m := range matches {
		b.WriteString(string(chars[last:m.Start]))
		b.WriteString(replacement)
		last = m.End
	}

	b.WriteString(string(chars[last:]))

	return b.String(), len(matches)
}

// fold maps every rune to lower case. The result has the same number of
// runes as s, so character offsets carry over to the original.
func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}
