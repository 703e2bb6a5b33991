package elastic

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// document is the wire representation the backend indexes. Field names are
// part of the backend contract: removal queries match on account_id and
// document_id.
type document struct {
	DocumentID  uint32        `json:"document_id"`
	AccountID   uint32        `json:"account_id"`
	Body        []string      `json:"body"`
	Attachments []string      `json:"attachments"`
	Keywords    []string      `json:"keywords"`
	Header      []headerField `json:"header"`
}

type headerField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// boolQuery is the delete-by-query request body. Clauses under "must" are
// ANDed by the backend.
type boolQuery struct {
	Query struct {
		Bool struct {
			Must []map[string]any `json:"must"`
		} `json:"bool"`
	} `json:"query"`
}

func newBoolQuery(must ...map[string]any) boolQuery {
	var q boolQuery
	q.Query.Bool.Must = must
	return q
}

// wireDocument converts a projected domain document for serialization. Empty
// sequences serialize as [] rather than null; the identifiers are always
// present.
func wireDocument(doc domain.Document) document {
	wire := document{
		DocumentID:  doc.DocumentID,
		AccountID:   doc.AccountID,
		Body:        doc.Body,
		Attachments: doc.Attachments,
		Keywords:    doc.Keywords,
		Header:      make([]headerField, 0, len(doc.Headers)),
	}
	if wire.Body == nil {
		wire.Body = []string{}
	}
	if wire.Attachments == nil {
		wire.Attachments = []string{}
	}
	if wire.Keywords == nil {
		wire.Keywords = []string{}
	}
	for _, h := range doc.Headers {
		wire.Header = append(wire.Header, headerField{Name: h.Name, Value: h.Value})
	}
	return wire
}

// Index submits one document to the index for the collection. The backend
// assigns the storage key itself; re-indexing the same (account, document)
// pair without a prior removal duplicates the record, so callers remove
// before re-indexing.
func (s *Store) Index(ctx context.Context, collection domain.Collection, doc domain.Document) error {
	if !collection.Valid() {
		return fmt.Errorf("index document: %w", domain.ErrUnknownCollection)
	}

	status, body, err := s.send(ctx, "/"+collection.IndexName()+"/_doc", wireDocument(doc))
	if err != nil {
		return &domain.IndexError{Err: err}
	}
	if !success(status) {
		return &domain.IndexError{Detail: fmt.Sprintf("status %d: %s", status, body)}
	}
	return nil
}

// Remove deletes the identified documents of an account from one collection
// via delete-by-query. The id set is enumerated eagerly; an empty enumeration
// still issues the request — an empty terms clause matches nothing and the
// call succeeds without touching any document.
func (s *Store) Remove(ctx context.Context, accountID uint32, collection domain.Collection, ids domain.DocumentIDSet) error {
	if !collection.Valid() {
		return fmt.Errorf("remove documents: %w", domain.ErrUnknownCollection)
	}

	documentIDs := ids.Enumerate()
	if documentIDs == nil {
		documentIDs = []uint32{}
	}

	query := newBoolQuery(
		map[string]any{"match": map[string]any{"account_id": accountID}},
		map[string]any{"terms": map[string]any{"document_id": documentIDs}},
	)

	status, body, err := s.send(ctx, "/"+collection.IndexName()+"/_delete_by_query", query)
	if err != nil {
		return &domain.RemovalError{Err: err}
	}
	if !success(status) {
		return &domain.RemovalError{Detail: fmt.Sprintf("status %d: %s", status, body)}
	}
	return nil
}

// RemoveAll deletes every document of an account across all collection
// indices with a single delete-by-query. Only success or failure is checked;
// deleting from an already-empty scope is a successful no-op.
func (s *Store) RemoveAll(ctx context.Context, accountID uint32) error {
	query := newBoolQuery(
		map[string]any{"match": map[string]any{"account_id": accountID}},
	)

	indices := strings.Join(domain.AllIndexNames(), ",")

	status, body, err := s.send(ctx, "/"+indices+"/_delete_by_query", query)
	if err != nil {
		return &domain.RemovalError{Err: err}
	}
	if !success(status) {
		return &domain.RemovalError{Detail: fmt.Sprintf("status %d: %s", status, body)}
	}
	return nil
}
