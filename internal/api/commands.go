package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"github.com/serroba/notepad/internal/buffer"
	"github.com/serroba/notepad/internal/editor"
	"github.com/serroba/notepad/internal/search"
	"github.com/serroba/notepad/internal/storage"
	"github.com/serroba/notepad/internal/ws"
)

// Command errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidEdit    = errors.New("invalid edit")
)

var errPayloadType = errors.New("unexpected payload type")

// routeCommands maps REST command names onto WebSocket message types.
var routeCommands = map[string]ws.MessageType{
	"edit":         ws.MessageTypeEdit,
	"undo":         ws.MessageTypeUndo,
	"redo":         ws.MessageTypeRedo,
	"search":       ws.MessageTypeSearch,
	"next":         ws.MessageTypeFindNext,
	"prev":         ws.MessageTypeFindPrev,
	"clear-search": ws.MessageTypeClearSearch,
	"replace":      ws.MessageTypeReplace,
	"replace-all":  ws.MessageTypeReplaceAll,
	"open":         ws.MessageTypeOpen,
	"save":         ws.MessageTypeSave,
}

// execute runs a command against a session. HTTP and WebSocket requests
// both end up here.
func execute(session *editor.Session, msg ws.Message) (ws.AckPayload, error) {
	var (
		changed bool
		count   int
		err     error
	)

	switch msg.Type {
	case ws.MessageTypeEdit:
		changed, err = applyEdit(session, msg.Payload)
	case ws.MessageTypeUndo:
		changed, err = session.Undo()
	case ws.MessageTypeRedo:
		changed, err = session.Redo()
	case ws.MessageTypeSearch:
		var p ws.SearchPayload

		if p, err = payloadAs[ws.SearchPayload](msg.Payload); err == nil {
			_, err = session.Search(p.Query, search.Options{CaseSensitive: p.CaseSensitive})
		}
	case ws.MessageTypeFindNext:
		_, changed = session.FindNext()
	case ws.MessageTypeFindPrev:
		_, changed = session.FindPrev()
	case ws.MessageTypeClearSearch:
		session.ClearSearch()
	case ws.MessageTypeReplace:
		var p ws.ReplacePayload

		if p, err = payloadAs[ws.ReplacePayload](msg.Payload); err == nil {
			changed, err = session.ReplaceCurrent(p.Replacement)
		}
	case ws.MessageTypeReplaceAll:
		var p ws.ReplaceAllPayload

		if p, err = payloadAs[ws.ReplaceAllPayload](msg.Payload); err == nil {
			count, err = session.ReplaceAll(p.Query, p.Replacement, search.Options{CaseSensitive: p.CaseSensitive})
			changed = count > 0
		}
	case ws.MessageTypeOpen:
		var p ws.OpenPayload

		if p, err = payloadAs[ws.OpenPayload](msg.Payload); err == nil {
			err = session.Open(p.Content)
			changed = err == nil
		}
	case ws.MessageTypeSave:
		err = session.Save()
		changed = err == nil
	case ws.MessageTypeSync:
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, msg.Type)
	}

	if err != nil {
		return ws.AckPayload{}, err
	}

	return ws.AckPayload{
		Revision: session.Revision(),
		Changed:  changed,
		Count:    count,
	}, nil
}

func applyEdit(session *editor.Session, payload any) (bool, error) {
	p, err := payloadAs[ws.EditPayload](payload)
	if err != nil {
		return false, err
	}

	e, err := toEdit(p)
	if err != nil {
		return false, err
	}

	if _, err := session.ApplyEdit(e); err != nil {
		return false, err
	}

	return !e.IsNoop(), nil
}

func payloadAs[T any](payload any) (T, error) {
	p, ok := payload.(T)
	if !ok {
		return p, fmt.Errorf("%w: %w", ws.ErrInvalidPayload, errPayloadType)
	}

	return p, nil
}

// toEdit converts a wire edit into a buffer edit.
func toEdit(p ws.EditPayload) (buffer.Edit, error) {
	editType, ok := buffer.ParseEditType(p.Type)
	if !ok {
		return buffer.Edit{}, fmt.Errorf("%w: unknown type %q", ErrInvalidEdit, p.Type)
	}

	switch editType {
	case buffer.Insert:
		return buffer.NewInsert(p.Text, p.Position, p.Key), nil
	case buffer.Delete:
		return buffer.NewDelete(p.Position, p.Length, p.Key), nil
	default:
		return buffer.NewReplace(p.Position, p.Length, p.Text, p.Key), nil
	}
}

// isSearchCommand reports whether a command only touches the search state.
func isSearchCommand(t ws.MessageType) bool {
	return lo.Contains([]ws.MessageType{
		ws.MessageTypeSearch,
		ws.MessageTypeFindNext,
		ws.MessageTypeFindPrev,
		ws.MessageTypeClearSearch,
	}, t)
}

// statePayload converts a session state into its wire form.
func statePayload(state editor.State) ws.StatePayload {
	return ws.StatePayload{
		DocID:    state.DocID,
		Content:  state.Content,
		Revision: state.Revision,
		Modified: state.Modified,
		CanUndo:  state.CanUndo,
		CanRedo:  state.CanRedo,
		Title:    state.Title,
		Search:   matchesPayload(state.Search),
	}
}

func matchesPayload(s editor.SearchState) ws.MatchesPayload {
	return ws.MatchesPayload{
		Query:         s.Query,
		CaseSensitive: s.CaseSensitive,
		Matches: lo.Map(s.Matches, func(m search.Match, _ int) ws.MatchPayload {
			return ws.MatchPayload{Start: m.Start, End: m.End}
		}),
		Current: s.Current,
	}
}

// httpStatus maps a command error onto an HTTP status code.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound), errors.Is(err, ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidEdit),
		errors.Is(err, ws.ErrInvalidPayload),
		errors.Is(err, buffer.ErrInvalidPosition),
		errors.Is(err, buffer.ErrUnknownEdit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorCode maps a command error onto a WebSocket error code.
func errorCode(err error) string {
	switch httpStatus(err) {
	case http.StatusNotFound:
		if errors.Is(err, ErrUnknownCommand) {
			return ws.ErrorCodeInvalidMessage
		}

		return ws.ErrorCodeNotFound
	case http.StatusBadRequest:
		if errors.Is(err, ws.ErrInvalidPayload) {
			return ws.ErrorCodeInvalidMessage
		}

		return ws.ErrorCodeInvalidEdit
	default:
		return ws.ErrorCodeInternalError
	}
}
