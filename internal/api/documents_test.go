package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/serroba/notepad/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates document with the given ID", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/documents", map[string]string{"id": "doc1"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.CreateDocumentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "doc1", resp.ID)

		exists, err := srv.store.DocumentExists("doc1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("generates an ID when none is given", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/documents", nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.CreateDocumentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		_, err := uuid.Parse(resp.ID)
		require.NoError(t, err)
	})

	t.Run("opens initial content as saved", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/documents", api.CreateDocumentRequest{
			ID:      "notes",
			Content: "first line",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		snapshot, err := srv.store.LoadSnapshot("notes")
		require.NoError(t, err)
		assert.Equal(t, "first line", snapshot.Content)
	})

	t.Run("returns 409 for duplicate document", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, "doc1")

		rec := srv.do(t, http.MethodPost, "/documents", map[string]string{"id": "doc1"})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("rejects IDs containing a slash", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/documents", map[string]string{"id": "a/b"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 400 for invalid JSON body", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader("invalid json"))
		req.Header.Set("X-User-Id", testUserID)

		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleListDocuments(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "shopping-list", "meeting-notes", "notes")

	list := func(query string) []string {
		rec := srv.do(t, http.MethodGet, "/documents?q="+query, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.ListDocumentsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		return resp.Documents
	}

	assert.Equal(t, []string{"meeting-notes", "notes", "shopping-list"}, list(""))
	assert.ElementsMatch(t, []string{"meeting-notes", "notes"}, list("nts"))
	assert.Empty(t, list("xyz"))
	assert.NotNil(t, list("xyz"))
}

func TestHandleGetDocument(t *testing.T) {
	t.Parallel()

	t.Run("gets document state", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, "doc1")
		srv.command(t, "doc1", "edit", insert("ab\ncd", 0))

		rec := srv.do(t, http.MethodGet, "/documents/doc1?cursor=4", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.GetDocumentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		assert.Equal(t, "doc1", resp.DocID)
		assert.Equal(t, "ab\ncd", resp.Content)
		assert.True(t, resp.Modified)
		assert.True(t, resp.CanUndo)
		assert.Equal(t, "*doc1 - Notepad", resp.Title)
		assert.Equal(t, "Ln 2, Col 2 | Characters: 5", resp.Status)
		assert.Equal(t, 2, resp.Stats.Lines)
		assert.Equal(t, -1, resp.Search.Current)
	})

	t.Run("returns 404 for non-existent document", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := srv.do(t, http.MethodGet, "/documents/nonexistent", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns 400 for invalid cursor", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, "doc1")

		rec := srv.do(t, http.MethodGet, "/documents/doc1?cursor=-2", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleDeleteDocument(t *testing.T) {
	t.Parallel()

	t.Run("deletes document and its session", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, "doc1")
		srv.command(t, "doc1", "edit", insert("unsaved", 0))
		require.Equal(t, 1, srv.manager.SessionCount())

		rec := srv.do(t, http.MethodDelete, "/documents/doc1", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		exists, err := srv.store.DocumentExists("doc1")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Equal(t, 0, srv.manager.SessionCount())
	})

	t.Run("returns 404 for non-existent document", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := srv.do(t, http.MethodDelete, "/documents/nonexistent", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
