package storage

import (
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

// documentData holds all stored data for a single document.
type documentData struct {
	snapshot *Snapshot
	draft    *Snapshot
}

// MemoryStore is an in-memory implementation of the Store interface.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*documentData
	now  func() time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*documentData),
		now:  time.Now,
	}
}

// CreateDocument creates a new document with the given ID.
func (m *MemoryStore) CreateDocument(docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[docID]; exists {
		return ErrDocumentExists
	}

	m.docs[docID] = &documentData{}

	return nil
}

// DocumentExists checks if a document exists.
func (m *MemoryStore) DocumentExists(docID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.docs[docID]

	return exists, nil
}

// DeleteDocument removes a document.
func (m *MemoryStore) DeleteDocument(docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[docID]; !exists {
		return ErrDocumentNotFound
	}

	delete(m.docs, docID)

	return nil
}

// ListDocuments returns the IDs of all documents in sorted order.
func (m *MemoryStore) ListDocuments() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := lo.Keys(m.docs)
	slices.Sort(ids)

	return ids, nil
}

// SaveSnapshot records content as the saved state of a document.
func (m *MemoryStore) SaveSnapshot(docID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.docs[docID]
	if !exists {
		return ErrDocumentNotFound
	}

	doc.snapshot = &Snapshot{
		DocID:     docID,
		Content:   content,
		CreatedAt: m.now(),
	}

	// A saved document has nothing left to recover
	doc.draft = nil

	return nil
}

// LoadSnapshot retrieves the saved state of a document.
func (m *MemoryStore) LoadSnapshot(docID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, exists := m.docs[docID]
	if !exists {
		return Snapshot{}, ErrDocumentNotFound
	}

	if doc.snapshot == nil {
		return Snapshot{}, ErrSnapshotNotFound
	}

	return *doc.snapshot, nil
}

// SaveDraft records unsaved content for a document.
func (m *MemoryStore) SaveDraft(docID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.docs[docID]
	if !exists {
		return ErrDocumentNotFound
	}

	doc.draft = &Snapshot{
		DocID:     docID,
		Content:   content,
		CreatedAt: m.now(),
	}

	return nil
}

// LoadDraft retrieves the unsaved content of a document.
func (m *MemoryStore) LoadDraft(docID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, exists := m.docs[docID]
	if !exists {
		return Snapshot{}, ErrDocumentNotFound
	}

	if doc.draft == nil {
		return Snapshot{}, ErrDraftNotFound
	}

	return *doc.draft, nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
