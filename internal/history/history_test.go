package history_test

import (
	"fmt"
	"testing"

	"github.com/serroba/notepad/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultCapacity(t *testing.T) {
	t.Parallel()

	m := history.New(0)

	if m.Capacity() != history.DefaultCapacity {
		t.Errorf("expected capacity %d, got %d", history.DefaultCapacity, m.Capacity())
	}

	if m.CanUndo() || m.CanRedo() {
		t.Error("expected empty history")
	}
}

func TestManager_Checkpoint_Idempotent(t *testing.T) {
	t.Parallel()

	m := history.New(10)
	m.Checkpoint("hello")
	m.Checkpoint("hello")

	if m.UndoDepth() != 1 {
		t.Errorf("expected undo depth 1, got %d", m.UndoDepth())
	}

	if m.Current() != "hello" {
		t.Errorf("expected current 'hello', got %q", m.Current())
	}
}

func TestManager_UndoRedo_RoundTrip(t *testing.T) {
	t.Parallel()

	m := history.New(10)
	m.Reset("s0")

	states := []string{"s1", "s2", "s3", "s4"}
	for _, s := range states {
		m.Checkpoint(s)
	}

	for i := len(states) - 1; i >= 0; i-- {
		content, ok := m.Undo()
		require.True(t, ok)

		want := "s0"
		if i > 0 {
			want = states[i-1]
		}

		assert.Equal(t, want, content)
	}

	_, ok := m.Undo()
	assert.False(t, ok, "expected nothing left to undo")

	var content string
	for range states {
		content, ok = m.Redo()
		require.True(t, ok)
	}

	assert.Equal(t, "s4", content)
	assert.Equal(t, "s4", m.Current())

	_, ok = m.Redo()
	assert.False(t, ok, "expected nothing left to redo")
}

func TestManager_CheckpointClearsRedo(t *testing.T) {
	t.Parallel()

	m := history.New(10)
	m.Reset("A")
	m.Checkpoint("B")
	m.Checkpoint("C")

	content, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "B", content)

	content, ok = m.Undo()
	require.True(t, ok)
	assert.Equal(t, "A", content)

	m.Checkpoint("D")

	_, ok = m.Redo()
	assert.False(t, ok, "redo must be unavailable after a new checkpoint")
	assert.Equal(t, 0, m.RedoDepth())

	content, ok = m.Undo()
	require.True(t, ok)
	assert.Equal(t, "A", content)
}

func TestManager_CheckpointSameContentKeepsRedo(t *testing.T) {
	t.Parallel()

	m := history.New(10)
	m.Reset("A")
	m.Checkpoint("B")

	_, ok := m.Undo()
	require.True(t, ok)

	// Unchanged content is not an edit.
	m.Checkpoint("A")

	content, ok := m.Redo()
	require.True(t, ok)
	assert.Equal(t, "B", content)
}

func TestManager_CapacityEvictsOldest(t *testing.T) {
	t.Parallel()

	const capacity = 3

	m := history.New(capacity)
	m.Reset("s0")

	for i := 1; i <= 6; i++ {
		m.Checkpoint(fmt.Sprintf("s%d", i))
	}

	if m.UndoDepth() != capacity {
		t.Fatalf("expected undo depth %d, got %d", capacity, m.UndoDepth())
	}

	var oldest string

	for {
		content, ok := m.Undo()
		if !ok {
			break
		}

		oldest = content
	}

	if oldest != "s3" {
		t.Errorf("expected oldest reachable state s3, got %q", oldest)
	}
}

func TestManager_RedoRespectsCapacity(t *testing.T) {
	t.Parallel()

	m := history.New(2)
	m.Reset("a")
	m.Checkpoint("b")
	m.Checkpoint("c")

	_, _ = m.Undo()
	_, _ = m.Undo()

	for m.CanRedo() {
		_, _ = m.Redo()
	}

	if m.UndoDepth() > m.Capacity() {
		t.Errorf("undo depth %d exceeds capacity %d", m.UndoDepth(), m.Capacity())
	}

	assert.Equal(t, "c", m.Current())
}

func TestManager_Reset(t *testing.T) {
	t.Parallel()

	m := history.New(5)
	m.Checkpoint("one")
	m.Checkpoint("two")
	_, _ = m.Undo()

	m.Reset("loaded")

	assert.Equal(t, "loaded", m.Current())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestManager_EmptyHistoryIsNotAnError(t *testing.T) {
	t.Parallel()

	m := history.New(5)

	content, ok := m.Undo()
	assert.False(t, ok)
	assert.Empty(t, content)

	content, ok = m.Redo()
	assert.False(t, ok)
	assert.Empty(t, content)
}
