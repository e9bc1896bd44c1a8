package editor

import (
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/serroba/notepad/internal/storage"
	"go.uber.org/zap"
)

// Manager manages the sessions of all open documents.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// Shared dependencies
	store       storage.Store
	policy      CheckpointPolicy
	draftPolicy *storage.DraftPolicy
	historySize int
	logger      *zap.Logger
}

// ManagerConfig holds configuration for creating a manager.
type ManagerConfig struct {
	Store       storage.Store
	Policy      CheckpointPolicy
	DraftPolicy *storage.DraftPolicy
	HistorySize int
	Logger      *zap.Logger
}

// NewManager creates a new session manager.
func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		sessions:    make(map[string]*Session),
		store:       cfg.Store,
		policy:      cfg.Policy,
		draftPolicy: cfg.DraftPolicy,
		historySize: cfg.HistorySize,
		logger:      logger,
	}
}

// GetOrCreateSession returns an existing session or opens a new one.
func (m *Manager) GetOrCreateSession(docID string) (*Session, error) {
	// Try read lock first
	m.mu.RLock()
	session, exists := m.sessions[docID]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if session, exists = m.sessions[docID]; exists {
		return session, nil
	}

	session = NewSession(SessionConfig{
		DocID:       docID,
		Store:       m.store,
		Policy:      m.policy,
		DraftPolicy: m.draftPolicy,
		HistorySize: m.historySize,
		Logger:      m.logger,
	})

	if err := session.Load(); err != nil {
		return nil, err
	}

	m.sessions[docID] = session
	m.logger.Debug("opened session", zap.String("doc", docID))

	return session, nil
}

// GetSession returns an existing session or nil if not found.
func (m *Manager) GetSession(docID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sessions[docID]
}

// CloseSession closes and removes a session.
func (m *Manager) CloseSession(docID string) error {
	m.mu.Lock()
	session, exists := m.sessions[docID]

	if !exists {
		m.mu.Unlock()

		return nil
	}

	delete(m.sessions, docID)
	m.mu.Unlock()

	m.logger.Debug("closed session", zap.String("doc", docID))

	return session.Close()
}

// CloseAll closes all sessions.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))

	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}

	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var lastErr error

	for _, s := range sessions {
		if err := s.Close(); err != nil {
			m.logger.Warn("failed to close session", zap.String("doc", s.DocID()), zap.Error(err))
			lastErr = err
		}
	}

	return lastErr
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Find returns the IDs of stored documents that fuzzily match pattern,
// best match first. An empty pattern returns every document.
func (m *Manager) Find(pattern string) ([]string, error) {
	ids, err := m.store.ListDocuments()
	if err != nil {
		return nil, err
	}

	if pattern == "" {
		return ids, nil
	}

	matches := fuzzy.Find(pattern, ids)
	result := make([]string, 0, len(matches))

	for _, match := range matches {
		result = append(result, match.Str)
	}

	return result, nil
}
