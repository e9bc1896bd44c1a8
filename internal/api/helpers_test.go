package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/serroba/notepad/internal/api"
	"github.com/serroba/notepad/internal/editor"
	"github.com/serroba/notepad/internal/storage"
	"github.com/serroba/notepad/internal/ws"
	"github.com/stretchr/testify/require"
)

const testUserID = "user1"

type testServer struct {
	handler http.Handler
	store   *storage.MemoryStore
	hub     *ws.Hub
	manager *editor.Manager
}

func newTestServer(t *testing.T, docIDs ...string) *testServer {
	t.Helper()

	store := storage.NewMemoryStore()
	for _, id := range docIDs {
		require.NoError(t, store.CreateDocument(id))
	}

	hub := ws.NewHub()
	manager := editor.NewManager(editor.ManagerConfig{
		Store:  store,
		Policy: editor.EveryEdit{},
	})

	server := api.NewServer(api.ServerConfig{
		Manager: manager,
		Store:   store,
		Hub:     hub,
	})

	return &testServer{
		handler: server.Handler(),
		store:   store,
		hub:     hub,
		manager: manager,
	}
}

// do sends an authenticated request with an optional JSON body.
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-User-Id", testUserID)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

// command posts a document command and decodes the response.
func (s *testServer) command(t *testing.T, docID, name string, body any) api.CommandResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/documents/"+docID+"/"+name, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.CommandResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	return resp
}

func insert(text string, position int) ws.EditPayload {
	return ws.EditPayload{Type: "insert", Position: position, Text: text}
}

func span(start, end int) ws.MatchPayload {
	return ws.MatchPayload{Start: start, End: end}
}
