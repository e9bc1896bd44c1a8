// Package buffer holds the live text of an open document and applies
// character-addressed edits to it.
package buffer

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Common errors.
var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrUnknownEdit     = errors.New("unknown edit type")
)

// Buffer is the mutable text of a document.
// It is safe for concurrent use.
type Buffer struct {
	mu      sync.RWMutex
	content []rune
}

// New creates a buffer with the given initial content.
func New(initial string) *Buffer {
	return &Buffer{
		content: []rune(initial),
	}
}

// Apply executes an edit on the buffer.
// No-op edits are silently ignored.
func (b *Buffer) Apply(e Edit) error {
	if e.IsNoop() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch e.Type {
	case Insert:
		return b.splice(e.Position, 0, e.Text)
	case Delete:
		return b.splice(e.Position, e.Length, "")
	case Replace:
		return b.splice(e.Position, e.Length, e.Text)
	default:
		return ErrUnknownEdit
	}
}

// splice removes length characters at position and inserts text there.
func (b *Buffer) splice(position, length int, text string) error {
	if position < 0 || length < 0 || position+length > len(b.content) {
		return ErrInvalidPosition
	}

	chars := []rune(text)

	next := make([]rune, 0, len(b.content)-length+len(chars))
	next = append(next, b.content[:position]...)
	next = append(next, chars...)
	next = append(next, b.content[position+length:]...)
	b.content = next

	return nil
}

// Set replaces the whole content.
func (b *Buffer) Set(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.content = []rune(content)
}

// Content returns the current content as a string.
func (b *Buffer) Content() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return string(b.content)
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.content)
}

// Position converts a character offset into a 1-based line and column.
// Offsets past the end are clamped to the end of the content.
func Position(content string, offset int) (line, col int) {
	line, col = 1, 1
	if offset <= 0 {
		return line, col
	}

	i := 0
	for _, r := range content {
		if i == offset {
			break
		}

		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}

		i++
	}

	return line, col
}

// Stats summarizes a document for the status bar.
type Stats struct {
	Characters int `json:"characters"`
	Graphemes  int `json:"graphemes"`
	Lines      int `json:"lines"`
	Words      int `json:"words"`
}

// ComputeStats counts characters, user-perceived characters, lines and words.
func ComputeStats(content string) Stats {
	return Stats{
		Characters: utf8.RuneCountInString(content),
		Graphemes:  uniseg.GraphemeClusterCount(content),
		Lines:      strings.Count(content, "\n") + 1,
		Words:      len(strings.Fields(content)),
	}
}
