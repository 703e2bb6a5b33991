package driven

import (
	"context"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// FullTextStore performs the three write operations mailfts needs against the
// external search backend. Implementations own transport, authentication and
// timeouts; they never retry, log errors or reorder calls. All operations are
// stateless and safe for concurrent use — any cross-operation ordering (e.g.
// keeping RemoveAll from racing an Index for the same account) belongs to the
// caller.
type FullTextStore interface {
	// Index submits one document to the index for the collection. The
	// backend assigns its own internal key: AccountID and DocumentID are
	// queryable attributes only, so indexing the same pair again without a
	// prior removal creates a duplicate record. Failures surface as
	// *domain.IndexError.
	Index(ctx context.Context, collection domain.Collection, doc domain.Document) error

	// Remove deletes, via delete-by-query, every document of the account
	// within the collection whose document id is in the set. The set is
	// enumerated eagerly before the query is built; an empty set still
	// issues a request that matches nothing and succeeds. Failures surface
	// as *domain.RemovalError.
	Remove(ctx context.Context, accountID uint32, collection domain.Collection, ids domain.DocumentIDSet) error

	// RemoveAll deletes every document of the account across every known
	// collection index in a single delete-by-query. Failures surface as
	// *domain.RemovalError.
	RemoveAll(ctx context.Context, accountID uint32) error
}
