package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// DefaultCheckpointEvery is how many printable characters may be typed
// before the keystroke policy takes a checkpoint.
const DefaultCheckpointEvery = 10

// DefaultStructuralKeys always start a new undo step.
var DefaultStructuralKeys = []string{"Return", "BackSpace", "Delete", "Tab"}

// CheckpointPolicy decides whether the content preceding an edit should be
// recorded in the undo history. length is the document length in
// characters before the edit is applied.
type CheckpointPolicy interface {
	ShouldCheckpoint(key string, length int) bool
}

// KeystrokePolicy checkpoints on structural keys and every Nth printable
// character. Edits without a key (paste, cut, scripted changes) always
// checkpoint.
type KeystrokePolicy struct {
	Every          int
	StructuralKeys []string
}

// NewKeystrokePolicy creates a keystroke policy.
// Zero values select the defaults.
func NewKeystrokePolicy(every int, structuralKeys []string) *KeystrokePolicy {
	if every <= 0 {
		every = DefaultCheckpointEvery
	}

	if len(structuralKeys) == 0 {
		structuralKeys = DefaultStructuralKeys
	}

	return &KeystrokePolicy{
		Every:          every,
		StructuralKeys: structuralKeys,
	}
}

// ShouldCheckpoint implements CheckpointPolicy.
func (p *KeystrokePolicy) ShouldCheckpoint(key string, length int) bool {
	if key == "" {
		return true
	}

	if lo.Contains(p.StructuralKeys, key) {
		return true
	}

	if !isPrintable(key) || p.Every <= 0 {
		return false
	}

	return length%p.Every == 0
}

// isPrintable reports whether key names a single printable character.
func isPrintable(key string) bool {
	r, size := utf8.DecodeRuneInString(key)

	return size == len(key) && r != utf8.RuneError && unicode.IsPrint(r)
}

// EveryEdit checkpoints before every edit.
type EveryEdit struct{}

// ShouldCheckpoint implements CheckpointPolicy.
func (EveryEdit) ShouldCheckpoint(string, int) bool {
	return true
}
