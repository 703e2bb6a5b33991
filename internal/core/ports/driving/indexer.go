package driving

import (
	"context"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// IndexerService exposes the indexing boundary: project a fragment stream
// into a document and ship it, or remove documents by account scope.
type IndexerService interface {
	// IndexMessage projects the fragments into a document carrying the
	// given identifiers and indexes it into the collection.
	IndexMessage(ctx context.Context, accountID, documentID uint32, collection domain.Collection, fragments []domain.Fragment) error

	// Remove deletes the identified documents of an account from one
	// collection.
	Remove(ctx context.Context, accountID uint32, collection domain.Collection, ids domain.DocumentIDSet) error

	// RemoveAccount deletes every document of an account across all
	// collections.
	RemoveAccount(ctx context.Context, accountID uint32) error
}
