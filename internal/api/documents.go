package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/serroba/notepad/internal/buffer"
	"github.com/serroba/notepad/internal/storage"
	"github.com/serroba/notepad/internal/ws"
	"go.uber.org/zap"
)

// CreateDocumentRequest is the request body for creating a document.
// Both fields are optional; a missing ID is generated.
type CreateDocumentRequest struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// CreateDocumentResponse is the response body for creating a document.
type CreateDocumentResponse struct {
	ID string `json:"id"`
}

// ListDocumentsResponse is the response body for listing documents.
type ListDocumentsResponse struct {
	Documents []string `json:"documents"`
}

// GetDocumentResponse is the response body for getting a document.
type GetDocumentResponse struct {
	ws.StatePayload

	Status string       `json:"status"`
	Stats  buffer.Stats `json:"stats"`
}

// CommandResponse is the response body for a document command.
type CommandResponse struct {
	Ack   ws.AckPayload   `json:"ack"`
	State ws.StatePayload `json:"state"`
}

// handleCreateDocument handles POST /documents.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)

		return
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	if strings.Contains(req.ID, "/") {
		http.Error(w, "document ID must not contain '/'", http.StatusBadRequest)

		return
	}

	if err := s.store.CreateDocument(req.ID); err != nil {
		if errors.Is(err, storage.ErrDocumentExists) {
			http.Error(w, "document already exists", http.StatusConflict)

			return
		}

		s.internalError(w, "create document", err)

		return
	}

	if req.Content != "" {
		session, err := s.manager.GetOrCreateSession(req.ID)
		if err == nil {
			err = session.Open(req.Content)
		}

		if err != nil {
			s.internalError(w, "open document", err)

			return
		}
	}

	s.logger.Info("created document",
		zap.String("doc", req.ID),
		zap.String("user", UserIDFromContext(r.Context())),
	)

	s.writeJSON(w, http.StatusCreated, CreateDocumentResponse{ID: req.ID})
}

// handleListDocuments handles GET /documents?q={pattern}.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.manager.Find(r.URL.Query().Get("q"))
	if err != nil {
		s.internalError(w, "list documents", err)

		return
	}

	if ids == nil {
		ids = []string{}
	}

	s.writeJSON(w, http.StatusOK, ListDocumentsResponse{Documents: ids})
}

// handleGetDocument handles GET /documents/{id}?cursor={offset}.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request, docID string) {
	cursor := 0

	if raw := r.URL.Query().Get("cursor"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "cursor must be a non-negative integer", http.StatusBadRequest)

			return
		}

		cursor = n
	}

	session, err := s.manager.GetOrCreateSession(docID)
	if err != nil {
		s.commandError(w, err)

		return
	}

	state, err := session.State()
	if err != nil {
		s.commandError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, GetDocumentResponse{
		StatePayload: statePayload(state),
		Status:       session.StatusText(cursor),
		Stats:        buffer.ComputeStats(state.Content),
	})
}

// handleDeleteDocument handles DELETE /documents/{id}.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, _ *http.Request, docID string) {
	// Close any active session first
	if err := s.manager.CloseSession(docID); err != nil {
		s.internalError(w, "close session", err)

		return
	}

	if err := s.store.DeleteDocument(docID); err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)

			return
		}

		s.internalError(w, "delete document", err)

		return
	}

	s.hub.CloseDocument(docID)

	w.WriteHeader(http.StatusNoContent)
}

// handleCommand handles POST /documents/{id}/{command}.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request, docID, command string) {
	msgType, ok := routeCommands[command]
	if !ok {
		http.Error(w, "unknown command", http.StatusNotFound)

		return
	}

	payload, err := decodeCommand(msgType, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	session, err := s.manager.GetOrCreateSession(docID)
	if err != nil {
		s.commandError(w, err)

		return
	}

	ack, err := execute(session, ws.Message{Type: msgType, Payload: payload})
	if err != nil {
		s.commandError(w, err)

		return
	}

	state, err := session.State()
	if err != nil {
		s.commandError(w, err)

		return
	}

	wire := statePayload(state)
	s.hub.BroadcastState(wire, ClientIDFromContext(r.Context()))

	s.writeJSON(w, http.StatusOK, CommandResponse{Ack: ack, State: wire})
}

// decodeCommand reads the request body for commands that carry a payload.
func decodeCommand(t ws.MessageType, body io.Reader) (any, error) {
	switch t {
	case ws.MessageTypeEdit:
		return decodeBody[ws.EditPayload](body)
	case ws.MessageTypeSearch:
		return decodeBody[ws.SearchPayload](body)
	case ws.MessageTypeReplace:
		return decodeBody[ws.ReplacePayload](body)
	case ws.MessageTypeReplaceAll:
		return decodeBody[ws.ReplaceAllPayload](body)
	case ws.MessageTypeOpen:
		return decodeBody[ws.OpenPayload](body)
	default:
		return nil, nil
	}
}

func decodeBody[T any](body io.Reader) (T, error) {
	var payload T

	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return payload, fmt.Errorf("invalid request body: %w", err)
	}

	return payload, nil
}

// commandError writes an error response for a failed session operation.
func (s *Server) commandError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		s.internalError(w, "command", err)

		return
	}

	http.Error(w, err.Error(), status)
}

func (s *Server) internalError(w http.ResponseWriter, action string, err error) {
	s.logger.Error("request failed", zap.String("action", action), zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// splitDocumentPath splits /documents/{id}[/{command}] into its parts.
func splitDocumentPath(path string) (docID, command string) {
	rest, ok := strings.CutPrefix(path, "/documents/")
	if !ok {
		return "", ""
	}

	docID, command, _ = strings.Cut(rest, "/")

	return docID, command
}
