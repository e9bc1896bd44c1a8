// Package api exposes editing sessions over HTTP and WebSocket.
package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/serroba/notepad/internal/editor"
	"github.com/serroba/notepad/internal/storage"
	"github.com/serroba/notepad/internal/ws"
	"go.uber.org/zap"
)

// Server handles HTTP requests for the editor API.
type Server struct {
	manager  *editor.Manager
	store    storage.Store
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// ServerConfig holds configuration for creating a server.
type ServerConfig struct {
	Manager *editor.Manager
	Store   storage.Store
	Hub     *ws.Hub
	Logger  *zap.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		manager: cfg.Manager,
		store:   cfg.Store,
		hub:     cfg.Hub,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true // Allow all origins for local tabs
			},
		},
	}
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Document endpoints (require auth)
	mux.Handle("/documents", s.authMiddleware(http.HandlerFunc(s.handleDocuments)))
	mux.Handle("/documents/", s.authMiddleware(http.HandlerFunc(s.handleDocumentByID)))

	// WebSocket endpoint (requires auth)
	mux.Handle("/ws", s.authMiddleware(http.HandlerFunc(s.handleWebSocket)))

	return s.loggingMiddleware(mux)
}

// handleDocuments routes POST and GET requests for /documents.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateDocument(w, r)
	case http.MethodGet:
		s.handleListDocuments(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleDocumentByID routes requests for /documents/{id} and
// /documents/{id}/{command}.
func (s *Server) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	docID, command := splitDocumentPath(r.URL.Path)
	if docID == "" {
		http.Error(w, "document ID is required", http.StatusBadRequest)

		return
	}

	if command != "" {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

			return
		}

		s.handleCommand(w, r, docID, command)

		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetDocument(w, r, docID)
	case http.MethodDelete:
		s.handleDeleteDocument(w, r, docID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
