package ws

import (
	"sync"
)

// Hub tracks connected tabs and the document each one has open, so that a
// change made in one tab can be pushed to every other tab on that document.
type Hub struct {
	mu sync.RWMutex

	// clients maps client ID to client
	clients map[string]*Client

	// viewers maps document ID to the set of client IDs viewing it
	viewers map[string]map[string]struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		viewers: make(map[string]map[string]struct{}),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
}

// Unregister removes a client and its subscription.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detachLocked(client.ID, client.DocID())
	delete(h.clients, client.ID)
}

// Subscribe points a client at a document, leaving its previous one.
func (h *Hub) Subscribe(client *Client, docID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev := client.DocID(); prev != docID {
		h.detachLocked(client.ID, prev)
	}

	if h.viewers[docID] == nil {
		h.viewers[docID] = make(map[string]struct{})
	}

	h.viewers[docID][client.ID] = struct{}{}
	client.SetDocID(docID)
}

// Unsubscribe removes a client from a document's viewers.
func (h *Hub) Unsubscribe(client *Client, docID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detachLocked(client.ID, docID)

	if client.DocID() == docID {
		client.SetDocID("")
	}
}

// detachLocked drops clientID from the viewers of docID.
func (h *Hub) detachLocked(clientID, docID string) {
	if docID == "" {
		return
	}

	ids, ok := h.viewers[docID]
	if !ok {
		return
	}

	delete(ids, clientID)

	if len(ids) == 0 {
		delete(h.viewers, docID)
	}
}

// Broadcast sends a message to every viewer of a document except
// excludeClientID.
func (h *Hub) Broadcast(docID string, msg Message, excludeClientID string) {
	for _, client := range h.recipients(docID, excludeClientID) {
		// Send in goroutine to avoid blocking on slow clients
		go func(c *Client) {
			_ = c.Send(msg)
		}(client)
	}
}

// recipients returns the viewers of docID other than excludeClientID.
func (h *Hub) recipients(docID, excludeClientID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := h.viewers[docID]
	result := make([]*Client, 0, len(ids))

	for id := range ids {
		if id == excludeClientID {
			continue
		}

		if client, ok := h.clients[id]; ok {
			result = append(result, client)
		}
	}

	return result
}

// BroadcastState pushes a document's state to every tab viewing it,
// except the one that caused the change.
func (h *Hub) BroadcastState(state StatePayload, excludeClientID string) {
	h.Broadcast(state.DocID, Message{
		Type:    MessageTypeState,
		Payload: state,
	}, excludeClientID)
}

// CloseDocument tells every viewer that a document is gone and drops
// their subscriptions.
func (h *Hub) CloseDocument(docID string) {
	h.Broadcast(docID, Message{
		Type: MessageTypeError,
		Payload: ErrorPayload{
			Code:    ErrorCodeNotFound,
			Message: "document was deleted",
		},
	}, "")

	h.mu.Lock()
	defer h.mu.Unlock()

	for id := range h.viewers[docID] {
		if client, ok := h.clients[id]; ok {
			client.SetDocID("")
		}
	}

	delete(h.viewers, docID)
}

// ClientCount returns the number of clients viewing a document.
func (h *Hub) ClientCount(docID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.viewers[docID])
}

// TotalClients returns the total number of connected clients.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
