package storage

import (
	"errors"
	"sync"
)

// DraftPolicy determines when to autosave a draft.
type DraftPolicy struct {
	mu                   sync.Mutex
	threshold            int            // Save a draft every N checkpoints
	checkpointsSinceSave map[string]int // Track checkpoints per document since last draft
}

// NewDraftPolicy creates a policy that triggers a draft every N checkpoints.
func NewDraftPolicy(threshold int) *DraftPolicy {
	return &DraftPolicy{
		threshold:            threshold,
		checkpointsSinceSave: make(map[string]int),
	}
}

// RecordCheckpoint records that a checkpoint was taken.
// Returns true if a draft should be saved.
func (p *DraftPolicy) RecordCheckpoint(docID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.checkpointsSinceSave[docID]++

	return p.checkpointsSinceSave[docID] >= p.threshold
}

// Reset resets the counter after a draft or snapshot is saved.
func (p *DraftPolicy) Reset(docID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.checkpointsSinceSave, docID)
}

// CheckpointsSinceSave returns the number of checkpoints since the last draft.
func (p *DraftPolicy) CheckpointsSinceSave(docID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.checkpointsSinceSave[docID]
}

// DocumentLoader reconstructs what an editing session should start with.
type DocumentLoader struct {
	store Store
}

// NewDocumentLoader creates a new document loader.
func NewDocumentLoader(store Store) *DocumentLoader {
	return &DocumentLoader{store: store}
}

// LoadResult contains the result of loading a document.
type LoadResult struct {
	Content   string // Content to edit
	Saved     string // Last saved content, used to detect modification
	Recovered bool   // True if Content came from an unsaved draft
	IsNew     bool   // True if the document was never saved
}

// Load returns the saved snapshot of a document, or its draft when one
// exists. A document that was never saved starts empty.
func (l *DocumentLoader) Load(docID string) (LoadResult, error) {
	var result LoadResult

	snapshot, err := l.store.LoadSnapshot(docID)

	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		result.IsNew = true
	case err != nil:
		return LoadResult{}, err
	default:
		result.Saved = snapshot.Content
	}

	result.Content = result.Saved

	draft, err := l.store.LoadDraft(docID)

	switch {
	case errors.Is(err, ErrDraftNotFound):
	case err != nil:
		return LoadResult{}, err
	default:
		result.Content = draft.Content
		result.Recovered = true
	}

	return result, nil
}
