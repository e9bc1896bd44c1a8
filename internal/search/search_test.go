package search_test

import (
	"testing"

	"github.com/serroba/notepad/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
		query    string
		opts     search.Options
		want     []search.Match
	}{
		{
			name:     "empty query matches nothing",
			document: "anything at all",
			query:    "",
			want:     nil,
		},
		{
			name:     "empty document",
			document: "",
			query:    "a",
			want:     nil,
		},
		{
			name:     "non-overlapping repeats",
			document: "aaaa",
			query:    "aa",
			opts:     search.Options{CaseSensitive: true},
			want:     []search.Match{{Start: 0, End: 2}, {Start: 2, End: 4}},
		},
		{
			name:     "odd repeats leave a remainder",
			document: "aaaaa",
			query:    "aa",
			opts:     search.Options{CaseSensitive: true},
			want:     []search.Match{{Start: 0, End: 2}, {Start: 2, End: 4}},
		},
		{
			name:     "case-insensitive",
			document: "Hello World",
			query:    "hello",
			want:     []search.Match{{Start: 0, End: 5}},
		},
		{
			name:     "case-sensitive miss",
			document: "Hello World",
			query:    "hello",
			opts:     search.Options{CaseSensitive: true},
			want:     nil,
		},
		{
			name:     "match at end of document",
			document: "say foo",
			query:    "foo",
			want:     []search.Match{{Start: 4, End: 7}},
		},
		{
			name:     "match is the whole document",
			document: "foo",
			query:    "FOO",
			want:     []search.Match{{Start: 0, End: 3}},
		},
		{
			name:     "query longer than document",
			document: "ab",
			query:    "abc",
			want:     nil,
		},
		{
			name:     "regex metacharacters are literal",
			document: "a.c abc a.c",
			query:    "a.c",
			opts:     search.Options{CaseSensitive: true},
			want:     []search.Match{{Start: 0, End: 3}, {Start: 8, End: 11}},
		},
		{
			name:     "brackets and stars are literal",
			document: "x[*]+ y[*]+",
			query:    "[*]+",
			want:     []search.Match{{Start: 1, End: 5}, {Start: 7, End: 11}},
		},
		{
			name:     "offsets are in characters",
			document: "héllo wörld WÖRLD",
			query:    "wörld",
			want:     []search.Match{{Start: 6, End: 11}, {Start: 12, End: 17}},
		},
		{
			name:     "multiline document",
			document: "one\ntwo\none",
			query:    "one",
			want:     []search.Match{{Start: 0, End: 3}, {Start: 8, End: 11}},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := search.Find(tt.document, tt.query, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind_SpansSliceOriginal(t *testing.T) {
	t.Parallel()

	document := "Ünïcode ÜNÏCODE ünïcode"
	matches := search.Find(document, "ünïcode", search.Options{})
	require.Len(t, matches, 3)

	chars := []rune(document)
	for _, m := range matches {
		assert.Equal(t, 7, m.Len())
		assert.Len(t, chars[m.Start:m.End], 7)
	}

	assert.Equal(t, "ÜNÏCODE", string(chars[matches[1].Start:matches[1].End]))
}

func TestReplaceOne(t *testing.T) {
	t.Parallel()

	t.Run("replaces first match and leaves one", func(t *testing.T) {
		t.Parallel()

		doc := "abcabc"
		matches := search.Find(doc, "abc", search.Options{})
		require.Len(t, matches, 2)

		doc = search.ReplaceOne(doc, matches[0], "")
		assert.Equal(t, "abc", doc)

		matches = search.Find(doc, "abc", search.Options{})
		assert.Equal(t, []search.Match{{Start: 0, End: 3}}, matches)
	})

	t.Run("replaces at end of document", func(t *testing.T) {
		t.Parallel()

		got := search.ReplaceOne("hello world", search.Match{Start: 6, End: 11}, "there")
		assert.Equal(t, "hello there", got)
	})

	t.Run("replaces whole document", func(t *testing.T) {
		t.Parallel()

		got := search.ReplaceOne("héllo", search.Match{Start: 0, End: 5}, "bye")
		assert.Equal(t, "bye", got)
	})

	t.Run("out of range span is a no-op", func(t *testing.T) {
		t.Parallel()

		doc := "short"
		assert.Equal(t, doc, search.ReplaceOne(doc, search.Match{Start: 3, End: 10}, "x"))
		assert.Equal(t, doc, search.ReplaceOne(doc, search.Match{Start: -1, End: 2}, "x"))
		assert.Equal(t, doc, search.ReplaceOne(doc, search.Match{Start: 3, End: 2}, "x"))
	})
}

func TestReplaceAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		document    string
		query       string
		replacement string
		opts        search.Options
		want        string
		count       int
	}{
		{
			name:        "case-sensitive",
			document:    "foo bar foo",
			query:       "foo",
			replacement: "baz",
			opts:        search.Options{CaseSensitive: true},
			want:        "baz bar baz",
			count:       2,
		},
		{
			name:        "case-sensitive skips other casing",
			document:    "Foo foo FOO",
			query:       "foo",
			replacement: "x",
			opts:        search.Options{CaseSensitive: true},
			want:        "Foo x FOO",
			count:       1,
		},
		{
			name:        "case-insensitive preserves surrounding text",
			document:    "Foo said FOO to foo.",
			query:       "foo",
			replacement: "Bar",
			want:        "Bar said Bar to Bar.",
			count:       3,
		},
		{
			name:        "replacement is literal",
			document:    "a+b a+b",
			query:       "a+b",
			replacement: `$1\n`,
			want:        `$1\n $1\n`,
			count:       2,
		},
		{
			name:        "non-overlapping",
			document:    "aaaa",
			query:       "aa",
			replacement: "b",
			opts:        search.Options{CaseSensitive: true},
			want:        "bb",
			count:       2,
		},
		{
			name:        "no matches",
			document:    "unchanged",
			query:       "zzz",
			replacement: "y",
			want:        "unchanged",
			count:       0,
		},
		{
			name:        "empty query",
			document:    "unchanged",
			query:       "",
			replacement: "y",
			want:        "unchanged",
			count:       0,
		},
		{
			name:        "deletion",
			document:    "a-b-c",
			query:       "-",
			replacement: "",
			want:        "abc",
			count:       2,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, count := search.ReplaceAll(tt.document, tt.query, tt.replacement, tt.opts)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, count)
		})
	}
}
