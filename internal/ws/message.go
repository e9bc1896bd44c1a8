package ws

// MessageType identifies the kind of WebSocket message.
type MessageType string

const (
	// Client to Server messages.
	MessageTypeEdit        MessageType = "edit"        // Client applies an edit
	MessageTypeUndo        MessageType = "undo"        // Client undoes the last step
	MessageTypeRedo        MessageType = "redo"        // Client redoes the last undone step
	MessageTypeSearch      MessageType = "search"      // Client sets the search query
	MessageTypeFindNext    MessageType = "findNext"    // Client moves to the next match
	MessageTypeFindPrev    MessageType = "findPrev"    // Client moves to the previous match
	MessageTypeClearSearch MessageType = "clearSearch" // Client clears highlighting
	MessageTypeReplace     MessageType = "replace"     // Client replaces the current match
	MessageTypeReplaceAll  MessageType = "replaceAll"  // Client replaces every match
	MessageTypeOpen        MessageType = "open"        // Client replaces the document with loaded content
	MessageTypeSave        MessageType = "save"        // Client saves the document
	MessageTypeSync        MessageType = "sync"        // Client requests current state

	// Server to Client messages.
	MessageTypeAck     MessageType = "ack"     // Server confirms a command
	MessageTypeState   MessageType = "state"   // Server sends full document state
	MessageTypeMatches MessageType = "matches" // Server sends search results
	MessageTypeError   MessageType = "error"   // Server reports an error
)

// Message is the envelope for all WebSocket communication.
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

// EditPayload is sent when a client edits the document.
type EditPayload struct {
	Type     string `json:"type"` // insert, delete or replace
	Position int    `json:"position"`
	Length   int    `json:"length,omitempty"`
	Text     string `json:"text,omitempty"`
	Key      string `json:"key,omitempty"`
}

// SearchPayload sets the search query.
type SearchPayload struct {
	Query         string `json:"query"`
	CaseSensitive bool   `json:"caseSensitive"`
}

// ReplacePayload replaces the current match.
type ReplacePayload struct {
	Replacement string `json:"replacement"`
}

// ReplaceAllPayload replaces every occurrence of a query.
type ReplaceAllPayload struct {
	Query         string `json:"query"`
	Replacement   string `json:"replacement"`
	CaseSensitive bool   `json:"caseSensitive"`
}

// OpenPayload carries content loaded by the client.
type OpenPayload struct {
	Content string `json:"content"`
}

// AckPayload confirms a command was processed.
type AckPayload struct {
	Revision int  `json:"revision"`
	Changed  bool `json:"changed"`         // False when undo/redo/replace had nothing to do
	Count    int  `json:"count,omitempty"` // Replacements made by replaceAll
}

// MatchPayload is a half-open character span.
type MatchPayload struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// MatchesPayload reports search results.
type MatchesPayload struct {
	Query         string         `json:"query"`
	CaseSensitive bool           `json:"caseSensitive"`
	Matches       []MatchPayload `json:"matches"`
	Current       int            `json:"current"` // -1 when there is no current match
}

// StatePayload sends the full document state.
type StatePayload struct {
	DocID    string         `json:"docId"`
	Content  string         `json:"content"`
	Revision int            `json:"revision"`
	Modified bool           `json:"modified"`
	CanUndo  bool           `json:"canUndo"`
	CanRedo  bool           `json:"canRedo"`
	Title    string         `json:"title"`
	Search   MatchesPayload `json:"search"`
}

// ErrorPayload reports an error to the client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeInvalidEdit    = "invalid_edit"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeInternalError  = "internal_error"
)
