package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/serroba/notepad/internal/editor"
	"github.com/serroba/notepad/internal/ws"
	"go.uber.org/zap"
)

// handleWebSocket handles GET /ws?docId={id}.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	docID := r.URL.Query().Get("docId")
	if docID == "" {
		http.Error(w, "docId query parameter is required", http.StatusBadRequest)

		return
	}

	client, cleanup, err := s.setupWebSocketClient(w, r, docID)
	if err != nil {
		return
	}

	defer cleanup()

	session, err := s.initializeSession(client, docID)
	if err != nil {
		return
	}

	s.handleMessages(client, session)
}

// setupWebSocketClient upgrades the connection and creates a client.
func (s *Server) setupWebSocketClient(w http.ResponseWriter, r *http.Request, docID string) (*ws.Client, func(), error) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))

		return nil, nil, err
	}

	// Tabs that also use the REST API pick their own ID so their
	// commands are not echoed back to them.
	clientID := ClientIDFromContext(r.Context())
	if clientID == "" {
		clientID = uuid.New().String()
	}

	client := ws.NewClient(clientID, UserIDFromContext(r.Context()), conn)
	s.hub.Register(client)
	s.hub.Subscribe(client, docID)

	s.logger.Debug("tab connected",
		zap.String("client", client.ID),
		zap.String("doc", docID),
	)

	cleanup := func() {
		s.hub.Unregister(client)
		_ = client.Close()
	}

	return client, cleanup, nil
}

// initializeSession gets or creates a session and sends initial state.
func (s *Server) initializeSession(client *ws.Client, docID string) (*editor.Session, error) {
	session, err := s.manager.GetOrCreateSession(docID)
	if err != nil {
		_ = client.SendError(errorCode(err), "failed to load document")

		return nil, err
	}

	if err := s.sendState(client, session); err != nil {
		return nil, err
	}

	return session, nil
}

// handleMessages processes incoming messages from a client until the
// connection closes.
func (s *Server) handleMessages(client *ws.Client, session *editor.Session) {
	for {
		msg, err := client.Receive()
		if errors.Is(err, ws.ErrInvalidPayload) {
			_ = client.SendError(ws.ErrorCodeInvalidMessage, err.Error())

			continue
		}

		if err != nil {
			return
		}

		s.handleCommandMessage(client, session, msg)
	}
}

// handleCommandMessage executes one command and replies to the sender
// with an ack followed by the state it needs to redraw.
func (s *Server) handleCommandMessage(client *ws.Client, session *editor.Session, msg ws.Message) {
	switch msg.Type {
	case ws.MessageTypeAck, ws.MessageTypeState, ws.MessageTypeMatches, ws.MessageTypeError:
		_ = client.SendError(ws.ErrorCodeInvalidMessage, "unexpected message type")

		return
	case ws.MessageTypeSync:
		_ = s.sendState(client, session)

		return
	}

	ack, err := execute(session, msg)
	if err != nil {
		_ = client.SendError(errorCode(err), err.Error())

		return
	}

	state, err := session.State()
	if err != nil {
		_ = client.SendError(errorCode(err), err.Error())

		return
	}

	wire := statePayload(state)

	_ = client.Send(ws.Message{Type: ws.MessageTypeAck, Payload: ack})

	if isSearchCommand(msg.Type) {
		_ = client.Send(ws.Message{Type: ws.MessageTypeMatches, Payload: wire.Search})
	} else {
		_ = client.Send(ws.Message{Type: ws.MessageTypeState, Payload: wire})
	}

	s.hub.BroadcastState(wire, client.ID)
}

// sendState sends the full document state to the client.
func (s *Server) sendState(client *ws.Client, session *editor.Session) error {
	state, err := session.State()
	if err != nil {
		_ = client.SendError(errorCode(err), "failed to get document state")

		return err
	}

	return client.Send(ws.Message{
		Type:    ws.MessageTypeState,
		Payload: statePayload(state),
	})
}
