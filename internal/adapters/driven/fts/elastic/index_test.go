package elastic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// capturedRequest records what the fake backend received.
type capturedRequest struct {
	method string
	path   string
	body   map[string]any
	header http.Header
}

// newBackend starts a fake backend that records requests and answers with the
// given status and body.
func newBackend(t *testing.T, status int, respBody string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()

	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			body:   body,
			header: r.Header.Clone(),
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(server.Close)

	return server, &captured
}

func newTestStore(t *testing.T, baseURL string) *Store {
	t.Helper()
	store, err := NewStore(Config{BaseURL: baseURL})
	require.NoError(t, err)
	return store
}

// mustClause digs the bool/must clause list out of a captured query body.
func mustClause(t *testing.T, body map[string]any) []any {
	t.Helper()
	query, ok := body["query"].(map[string]any)
	require.True(t, ok, "body has no query")
	boolQ, ok := query["bool"].(map[string]any)
	require.True(t, ok, "query has no bool")
	must, ok := boolQ["must"].([]any)
	require.True(t, ok, "bool has no must")
	return must
}

// TestStore_Index_Success tests a successful index request
func TestStore_Index_Success(t *testing.T) {
	server, captured := newBackend(t, http.StatusCreated, `{"result":"created"}`)
	store := newTestStore(t, server.URL)

	doc := domain.BuildDocument(7, 42, []domain.Fragment{
		domain.HeaderFragment("Subject", "Hello"),
		domain.BodyFragment("world"),
		domain.KeywordFragment("urgent"),
	})

	err := store.Index(context.Background(), domain.CollectionEmail, doc)
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/fts-email/_doc", req.path)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
	assert.Contains(t, req.header.Get("X-Opaque-Id"), "mailfts-")

	assert.Equal(t, float64(42), req.body["document_id"])
	assert.Equal(t, float64(7), req.body["account_id"])
	assert.Equal(t, []any{"world"}, req.body["body"])
	assert.Equal(t, []any{"urgent"}, req.body["keywords"])
	assert.Equal(t, []any{}, req.body["attachments"])

	header, ok := req.body["header"].([]any)
	require.True(t, ok)
	require.Len(t, header, 1)
	assert.Equal(t, map[string]any{"name": "Subject", "value": "Hello"}, header[0])
}

// TestStore_Index_EmptyDocument tests that identifiers survive with all sequences empty
func TestStore_Index_EmptyDocument(t *testing.T) {
	server, captured := newBackend(t, http.StatusCreated, `{}`)
	store := newTestStore(t, server.URL)

	err := store.Index(context.Background(), domain.CollectionContact, domain.BuildDocument(3, 9, nil))
	require.NoError(t, err)

	req := (*captured)[0]
	assert.Equal(t, "/fts-contact/_doc", req.path)
	assert.Equal(t, float64(9), req.body["document_id"])
	assert.Equal(t, float64(3), req.body["account_id"])
	assert.Equal(t, []any{}, req.body["body"])
	assert.Equal(t, []any{}, req.body["attachments"])
	assert.Equal(t, []any{}, req.body["keywords"])
	assert.Equal(t, []any{}, req.body["header"])
}

// TestStore_Index_BackendFailure tests that a non-success status becomes an IndexError
func TestStore_Index_BackendFailure(t *testing.T) {
	server, _ := newBackend(t, http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`)
	store := newTestStore(t, server.URL)

	err := store.Index(context.Background(), domain.CollectionEmail, domain.BuildDocument(1, 1, nil))

	var indexErr *domain.IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Contains(t, indexErr.Detail, "status 400")
	assert.Contains(t, indexErr.Detail, "mapper_parsing_exception")
}

// TestStore_Index_TransportFailure tests that an unreachable backend becomes an IndexError
func TestStore_Index_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on
	store := newTestStore(t, server.URL)

	err := store.Index(context.Background(), domain.CollectionEmail, domain.BuildDocument(1, 1, nil))

	var indexErr *domain.IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Error(t, indexErr.Err)
}

// TestStore_Index_UnknownCollection tests boundary rejection of invalid collections
func TestStore_Index_UnknownCollection(t *testing.T) {
	server, captured := newBackend(t, http.StatusOK, `{}`)
	store := newTestStore(t, server.URL)

	err := store.Index(context.Background(), domain.Collection(99), domain.BuildDocument(1, 1, nil))

	assert.ErrorIs(t, err, domain.ErrUnknownCollection)
	assert.Empty(t, *captured, "no request should be issued")
}

// TestStore_Remove tests the account and id scoped delete-by-query
func TestStore_Remove(t *testing.T) {
	server, captured := newBackend(t, http.StatusOK, `{"deleted":2}`)
	store := newTestStore(t, server.URL)

	err := store.Remove(context.Background(), 3, domain.CollectionEmail, domain.IDList{5, 9})
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/fts-email/_delete_by_query", req.path)

	must := mustClause(t, req.body)
	require.Len(t, must, 2)
	assert.Equal(t, map[string]any{"match": map[string]any{"account_id": float64(3)}}, must[0])
	assert.Equal(t, map[string]any{"terms": map[string]any{"document_id": []any{float64(5), float64(9)}}}, must[1])
}

// TestStore_Remove_EmptySet tests that an empty id set still issues a matching-nothing query
func TestStore_Remove_EmptySet(t *testing.T) {
	server, captured := newBackend(t, http.StatusOK, `{"deleted":0}`)
	store := newTestStore(t, server.URL)

	err := store.Remove(context.Background(), 3, domain.CollectionEmail, domain.IDList(nil))
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	must := mustClause(t, (*captured)[0].body)
	require.Len(t, must, 2)
	assert.Equal(t, map[string]any{"terms": map[string]any{"document_id": []any{}}}, must[1])
}

// TestStore_Remove_BackendFailure tests that a non-success status becomes a RemovalError
func TestStore_Remove_BackendFailure(t *testing.T) {
	server, _ := newBackend(t, http.StatusConflict, `{"error":"version_conflict"}`)
	store := newTestStore(t, server.URL)

	err := store.Remove(context.Background(), 3, domain.CollectionEmail, domain.IDList{1})

	var removalErr *domain.RemovalError
	require.ErrorAs(t, err, &removalErr)
	assert.Contains(t, removalErr.Detail, "status 409")
}

// TestStore_RemoveAll tests the account-wide delete-by-query across all indices
func TestStore_RemoveAll(t *testing.T) {
	server, captured := newBackend(t, http.StatusOK, `{"deleted":17}`)
	store := newTestStore(t, server.URL)

	err := store.RemoveAll(context.Background(), 12)
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/fts-email,fts-contact,fts-calendar/_delete_by_query", req.path)

	must := mustClause(t, req.body)
	require.Len(t, must, 1, "account clause only, no terms clause")
	assert.Equal(t, map[string]any{"match": map[string]any{"account_id": float64(12)}}, must[0])
}

// TestStore_RemoveAll_BackendFailure tests RemoveAll error surfacing
func TestStore_RemoveAll_BackendFailure(t *testing.T) {
	server, _ := newBackend(t, http.StatusInternalServerError, `{"error":"shard failure"}`)
	store := newTestStore(t, server.URL)

	err := store.RemoveAll(context.Background(), 12)

	var removalErr *domain.RemovalError
	require.ErrorAs(t, err, &removalErr)
	assert.Contains(t, removalErr.Detail, "shard failure")
}
