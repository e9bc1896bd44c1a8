package storage

import (
	"errors"
	"time"
)

// Common errors.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentExists   = errors.New("document already exists")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrDraftNotFound    = errors.New("draft not found")
)

// Snapshot is a point-in-time copy of a document's content.
type Snapshot struct {
	DocID     string
	Content   string
	CreatedAt time.Time
}

// Store keeps document content for the lifetime of the process.
// A snapshot is the last explicitly saved content; a draft is unsaved
// content captured periodically so an editing session can be recovered.
type Store interface {
	// CreateDocument creates a new, empty document with the given ID.
	// Returns ErrDocumentExists if the document already exists.
	CreateDocument(docID string) error

	// DocumentExists checks if a document exists.
	DocumentExists(docID string) (bool, error)

	// DeleteDocument removes a document with its snapshot and draft.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	DeleteDocument(docID string) error

	// ListDocuments returns the IDs of all documents in sorted order.
	ListDocuments() ([]string, error)

	// SaveSnapshot records content as the saved state and discards any draft.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	SaveSnapshot(docID, content string) error

	// LoadSnapshot retrieves the saved state of a document.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	// Returns ErrSnapshotNotFound if the document has never been saved.
	LoadSnapshot(docID string) (Snapshot, error)

	// SaveDraft records unsaved content.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	SaveDraft(docID, content string) error

	// LoadDraft retrieves the unsaved content of a document.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	// Returns ErrDraftNotFound if there is no draft.
	LoadDraft(docID string) (Snapshot, error)
}
