package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/serroba/notepad/internal/buffer"
	"github.com/serroba/notepad/internal/history"
	"github.com/serroba/notepad/internal/search"
	"github.com/serroba/notepad/internal/storage"
	"go.uber.org/zap"
)

// Common errors.
var (
	ErrSessionClosed = errors.New("session is closed")
)

// AppName is shown in document titles.
const AppName = "Notepad"

// Session is the editing state of a single open document: its live buffer,
// undo history and search state. Each document gets its own session so
// undo and search never leak between documents.
type Session struct {
	docID string

	mu       sync.Mutex
	buffer   *buffer.Buffer
	history  *history.Manager
	search   *search.State
	saved    string // Content at the last open or save
	revision int    // Incremented on every content change
	closed   bool

	// Dependencies
	store       storage.Store
	policy      CheckpointPolicy
	draftPolicy *storage.DraftPolicy
	logger      *zap.Logger
}

// SessionConfig holds configuration for creating a session.
type SessionConfig struct {
	DocID       string
	Store       storage.Store
	Policy      CheckpointPolicy
	DraftPolicy *storage.DraftPolicy
	HistorySize int
	Logger      *zap.Logger
}

// SearchState describes the active query of a session.
type SearchState struct {
	Query         string
	CaseSensitive bool
	Matches       []search.Match
	Current       int // -1 when there is no current match
}

// State is a consistent view of a session.
type State struct {
	DocID    string
	Content  string
	Revision int
	Modified bool
	CanUndo  bool
	CanRedo  bool
	Title    string
	Search   SearchState
}

// NewSession creates a new editing session with an empty buffer.
func NewSession(cfg SessionConfig) *Session {
	policy := cfg.Policy
	if policy == nil {
		policy = NewKeystrokePolicy(0, nil)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		docID:       cfg.DocID,
		buffer:      buffer.New(""),
		history:     history.New(cfg.HistorySize),
		search:      search.NewState(),
		store:       cfg.Store,
		policy:      policy,
		draftPolicy: cfg.DraftPolicy,
		logger:      logger.With(zap.String("doc", cfg.DocID)),
	}
}

// Load initializes the session from storage, recovering an unsaved draft
// when one exists.
func (s *Session) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	result, err := storage.NewDocumentLoader(s.store).Load(s.docID)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.docID, err)
	}

	if result.Recovered {
		s.logger.Info("recovered unsaved draft")
	}

	s.resetLocked(result.Content)
	s.saved = result.Saved

	return nil
}

// resetLocked replaces the content and starts a fresh history.
func (s *Session) resetLocked(content string) {
	s.buffer.Set(content)
	s.history.Reset(content)
	s.search.Clear()
	s.revision++
}

// ApplyEdit applies an edit from the shell, first recording the current
// content in the history when the checkpoint policy asks for it.
func (s *Session) ApplyEdit(e buffer.Edit) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return State{}, ErrSessionClosed
	}

	if s.policy.ShouldCheckpoint(e.Key, s.buffer.Len()) {
		s.checkpointLocked()
	}

	if err := s.buffer.Apply(e); err != nil {
		return State{}, err
	}

	if !e.IsNoop() {
		s.contentChangedLocked()
	}

	return s.stateLocked(), nil
}

// Checkpoint records the current content in the history.
// It is the explicit undo boundary for shells that manage their own policy.
func (s *Session) Checkpoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.checkpointLocked()

	return nil
}

// checkpointLocked records the buffer content if it changed since the last
// checkpoint and autosaves a draft when the draft policy asks for it.
func (s *Session) checkpointLocked() {
	content := s.buffer.Content()
	if content == s.history.Current() {
		return
	}

	s.history.Checkpoint(content)

	if s.draftPolicy == nil || !s.draftPolicy.RecordCheckpoint(s.docID) {
		return
	}

	if err := s.store.SaveDraft(s.docID, content); err != nil {
		s.logger.Warn("failed to save draft", zap.Error(err))

		return
	}

	s.draftPolicy.Reset(s.docID)
}

// contentChangedLocked bumps the revision and re-runs the active search.
func (s *Session) contentChangedLocked() {
	s.revision++
	s.search.Refresh(s.buffer.Content())
}

// Undo restores the previous snapshot. Uncheckpointed edits are recorded
// first so they can be redone. Returns false if there is nothing to undo.
func (s *Session) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}

	s.checkpointLocked()

	content, ok := s.history.Undo()
	if !ok {
		return false, nil
	}

	s.buffer.Set(content)
	s.contentChangedLocked()
	s.logger.Debug("undo", zap.Int("undoDepth", s.history.UndoDepth()))

	return true, nil
}

// Redo restores the next snapshot. Returns false if there is nothing to
// redo, which includes the case where the buffer was edited after an undo.
func (s *Session) Redo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}

	s.checkpointLocked()

	content, ok := s.history.Redo()
	if !ok {
		return false, nil
	}

	s.buffer.Set(content)
	s.contentChangedLocked()
	s.logger.Debug("redo", zap.Int("redoDepth", s.history.RedoDepth()))

	return true, nil
}

// Search computes the matches of query and makes the first one current.
// An empty query clears the search.
func (s *Session) Search(query string, opts search.Options) ([]search.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	return s.search.Update(s.buffer.Content(), query, opts), nil
}

// FindNext moves to the next match, wrapping around.
func (s *Session) FindNext() (search.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.search.Next()
}

// FindPrev moves to the previous match, wrapping around.
func (s *Session) FindPrev() (search.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.search.Prev()
}

// ClearSearch returns the search to idle.
func (s *Session) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.search.Clear()
}

// ReplaceCurrent replaces the current match and leaves the following match
// current. Returns false if there is no current match.
func (s *Session) ReplaceCurrent(replacement string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}

	m, ok := s.search.Current()
	if !ok {
		return false, nil
	}

	s.checkpointLocked()

	content := search.ReplaceOne(s.buffer.Content(), m, replacement)
	s.buffer.Set(content)
	s.checkpointLocked()
	s.contentChangedLocked()

	return true, nil
}

// ReplaceAll replaces every match of query as a single undo step and
// returns the number of replacements.
func (s *Session) ReplaceAll(query, replacement string, opts search.Options) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSessionClosed
	}

	content, count := search.ReplaceAll(s.buffer.Content(), query, replacement, opts)
	if count == 0 {
		return 0, nil
	}

	s.checkpointLocked()
	s.buffer.Set(content)
	s.checkpointLocked()
	s.contentChangedLocked()

	s.logger.Debug("replaced all",
		zap.String("query", query),
		zap.Int("count", count),
	)

	return count, nil
}

// Open replaces the document with content loaded by the shell and saves it.
// History and search start over.
func (s *Session) Open(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	if err := s.store.SaveSnapshot(s.docID, content); err != nil {
		return fmt.Errorf("open %s: %w", s.docID, err)
	}

	s.resetLocked(content)
	s.saved = content

	if s.draftPolicy != nil {
		s.draftPolicy.Reset(s.docID)
	}

	return nil
}

// New clears the document.
func (s *Session) New() error {
	return s.Open("")
}

// Save stores the current content as the saved state.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	content := s.buffer.Content()

	if err := s.store.SaveSnapshot(s.docID, content); err != nil {
		return fmt.Errorf("save %s: %w", s.docID, err)
	}

	s.saved = content

	if s.draftPolicy != nil {
		s.draftPolicy.Reset(s.docID)
	}

	return nil
}

// State returns a consistent view of the session.
func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return State{}, ErrSessionClosed
	}

	return s.stateLocked(), nil
}

func (s *Session) stateLocked() State {
	content := s.buffer.Content()
	modified := content != s.saved

	return State{
		DocID:    s.docID,
		Content:  content,
		Revision: s.revision,
		Modified: modified,
		// Uncheckpointed edits can always be undone.
		CanUndo: s.history.CanUndo() || content != s.history.Current(),
		CanRedo: s.history.CanRedo() && content == s.history.Current(),
		Title:   title(s.docID, modified),
		Search: SearchState{
			Query:         s.search.Query(),
			CaseSensitive: s.search.Options().CaseSensitive,
			Matches:       s.search.Matches(),
			Current:       s.search.Index(),
		},
	}
}

// title formats a window title, marking unsaved changes with an asterisk.
func title(docID string, modified bool) string {
	name := docID
	if name == "" {
		name = "Untitled"
	}

	if modified {
		name = "*" + name
	}

	return name + " - " + AppName
}

// StatusText formats the status bar for a cursor at the given character
// offset, e.g. "Ln 2, Col 5 | Characters: 1,024".
func (s *Session) StatusText(cursor int) string {
	content := s.buffer.Content()
	line, col := buffer.Position(content, cursor)
	stats := buffer.ComputeStats(content)

	return fmt.Sprintf("Ln %d, Col %d | Characters: %s",
		line, col, humanize.Comma(int64(stats.Characters)))
}

// DocID returns the document ID for this session.
func (s *Session) DocID() string {
	return s.docID
}

// Revision returns the current revision number.
func (s *Session) Revision() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.revision
}

// Close closes the session. Unsaved changes are kept as a draft.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	content := s.buffer.Content()
	if content == s.saved {
		return nil
	}

	if err := s.store.SaveDraft(s.docID, content); err != nil {
		// The document may have been deleted while the session was open.
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return nil
		}

		return fmt.Errorf("close %s: %w", s.docID, err)
	}

	return nil
}
