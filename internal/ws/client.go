package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidPayload is returned by Receive when a payload cannot be decoded.
var ErrInvalidPayload = errors.New("invalid payload")

var errMissingPayload = errors.New("missing payload")

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	Close() error
}

// Client represents a connected editor tab.
type Client struct {
	ID     string
	UserID string
	conn   Conn

	mu    sync.Mutex
	docID string // Currently subscribed document
}

// NewClient creates a new client wrapper.
func NewClient(id, userID string, conn Conn) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		conn:   conn,
	}
}

// Send sends a message to the client.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(msg)
}

// SendError sends an error message to the client.
func (c *Client) SendError(code, message string) error {
	return c.Send(Message{
		Type: MessageTypeError,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Receive reads a message from the client.
// A message whose payload does not decode is reported with ErrInvalidPayload;
// the connection remains usable.
func (c *Client) Receive() (Message, error) {
	var raw struct {
		Type    MessageType     `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := c.conn.ReadJSON(&raw); err != nil {
		return Message{}, err
	}

	msg := Message{Type: raw.Type}

	var err error

	// Parse payload based on message type
	switch raw.Type {
	case MessageTypeEdit:
		msg.Payload, err = decodePayload[EditPayload](raw.Payload)
	case MessageTypeSearch:
		msg.Payload, err = decodePayload[SearchPayload](raw.Payload)
	case MessageTypeReplace:
		msg.Payload, err = decodePayload[ReplacePayload](raw.Payload)
	case MessageTypeReplaceAll:
		msg.Payload, err = decodePayload[ReplaceAllPayload](raw.Payload)
	case MessageTypeOpen:
		msg.Payload, err = decodePayload[OpenPayload](raw.Payload)
	case MessageTypeUndo, MessageTypeRedo, MessageTypeFindNext, MessageTypeFindPrev,
		MessageTypeClearSearch, MessageTypeSave, MessageTypeSync:
		// Commands without a payload
	case MessageTypeAck, MessageTypeState, MessageTypeMatches, MessageTypeError:
		// Server-to-client messages - keep raw payload
		msg.Payload = raw.Payload
	}

	if err != nil {
		return msg, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, raw.Type, err)
	}

	return msg, nil
}

// decodePayload unmarshals a payload into T.
func decodePayload[T any](data json.RawMessage) (T, error) {
	var payload T

	if len(data) == 0 {
		return payload, errMissingPayload
	}

	err := json.Unmarshal(data, &payload)

	return payload, err
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// DocID returns the document the client is subscribed to.
func (c *Client) DocID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.docID
}

// SetDocID sets the document the client is subscribed to.
func (c *Client) SetDocID(docID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docID = docID
}
