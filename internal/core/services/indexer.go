package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/mailfts/internal/core/domain"
	"github.com/custodia-labs/mailfts/internal/core/ports/driven"
	"github.com/custodia-labs/mailfts/internal/core/ports/driving"
	"github.com/custodia-labs/mailfts/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// IndexerService is the indexing boundary: it validates the collection,
// projects fragments into a document and delegates to the full-text store.
// It holds no state and never retries; backend failures pass through to the
// caller, who decides whether to retry, skip or abort a batch.
type IndexerService struct {
	fts driven.FullTextStore
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(fts driven.FullTextStore) *IndexerService {
	return &IndexerService{fts: fts}
}

// IndexMessage projects the fragment stream into a document carrying the
// given identifiers and indexes it into the collection. Projection is total;
// only the backend call can fail.
func (s *IndexerService) IndexMessage(
	ctx context.Context,
	accountID, documentID uint32,
	collection domain.Collection,
	fragments []domain.Fragment,
) error {
	if s.fts == nil {
		return domain.ErrBackendUnavailable
	}
	if !collection.Valid() {
		return fmt.Errorf("index message: %w", domain.ErrUnknownCollection)
	}

	doc := domain.BuildDocument(accountID, documentID, fragments)

	logger.Debug("indexing document %d for account %d into %s (%d fragments)",
		documentID, accountID, collection, len(fragments))

	return s.fts.Index(ctx, collection, doc)
}

// Remove deletes the identified documents of an account from one collection.
func (s *IndexerService) Remove(
	ctx context.Context,
	accountID uint32,
	collection domain.Collection,
	ids domain.DocumentIDSet,
) error {
	if s.fts == nil {
		return domain.ErrBackendUnavailable
	}
	if !collection.Valid() {
		return fmt.Errorf("remove documents: %w", domain.ErrUnknownCollection)
	}

	return s.fts.Remove(ctx, accountID, collection, ids)
}

// RemoveAccount deletes every document of an account across all collections.
func (s *IndexerService) RemoveAccount(ctx context.Context, accountID uint32) error {
	if s.fts == nil {
		return domain.ErrBackendUnavailable
	}

	logger.Info("removing all documents for account %d", accountID)

	return s.fts.RemoveAll(ctx, accountID)
}
