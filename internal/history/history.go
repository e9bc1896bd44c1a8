// Package history keeps a linear, bounded undo/redo history of document
// snapshots.
package history

// DefaultCapacity is the maximum number of undo snapshots kept when no
// explicit capacity is given.
const DefaultCapacity = 100

// Manager records snapshots of a single document.
// It is not safe for concurrent use; the owner of the buffer serializes calls.
type Manager struct {
	past     []string // Older snapshots, oldest first
	future   []string // Redo candidates, most recent last
	current  string   // Content at the last checkpoint
	capacity int      // Maximum length of past
}

// New creates a history manager with empty content.
// A capacity of zero or less selects DefaultCapacity.
func New(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Manager{
		past:     make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Checkpoint records content if it differs from the last recorded content.
// Any new checkpoint invalidates the redo history.
func (m *Manager) Checkpoint(content string) {
	if content == m.current {
		return
	}

	m.pushPast(m.current)
	m.current = content
	m.future = m.future[:0]
}

// Undo steps back one snapshot and returns it.
// Returns false if there is nothing to undo.
func (m *Manager) Undo() (string, bool) {
	if len(m.past) == 0 {
		return "", false
	}

	m.future = append(m.future, m.current)
	m.current = m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]

	return m.current, true
}

// Redo steps forward one snapshot and returns it.
// Returns false if there is nothing to redo.
func (m *Manager) Redo() (string, bool) {
	if len(m.future) == 0 {
		return "", false
	}

	m.pushPast(m.current)
	m.current = m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]

	return m.current, true
}

// Reset discards all history and starts over from content.
func (m *Manager) Reset(content string) {
	m.past = m.past[:0]
	m.future = m.future[:0]
	m.current = content
}

// pushPast appends to the undo history, evicting the oldest entry at capacity.
func (m *Manager) pushPast(content string) {
	if len(m.past) >= m.capacity {
		// Shift in place so the backing array does not grow without bound.
		copy(m.past, m.past[1:])
		m.past = m.past[:len(m.past)-1]
	}

	m.past = append(m.past, content)
}

// Current returns the content recorded at the last checkpoint, undo or redo.
func (m *Manager) Current() string {
	return m.current
}

// CanUndo reports whether Undo would change the content.
func (m *Manager) CanUndo() bool {
	return len(m.past) > 0
}

// CanRedo reports whether Redo would change the content.
func (m *Manager) CanRedo() bool {
	return len(m.future) > 0
}

// UndoDepth returns the number of snapshots available to Undo.
func (m *Manager) UndoDepth() int {
	return len(m.past)
}

// RedoDepth returns the number of snapshots available to Redo.
func (m *Manager) RedoDepth() int {
	return len(m.future)
}

// Capacity returns the maximum number of undo snapshots.
func (m *Manager) Capacity() int {
	return m.capacity
}
