package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/mailfts/internal/core/domain"
	"github.com/custodia-labs/mailfts/internal/core/ports/driven"
	"github.com/custodia-labs/mailfts/internal/core/ports/driving"
	"github.com/custodia-labs/mailfts/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncService = (*SyncService)(nil)

// Default sync tuning.
const (
	// DefaultBatchSize is how many messages are fetched per IMAP round trip.
	DefaultBatchSize = 50

	// DefaultWriteRate caps backend index requests per second.
	DefaultWriteRate = 20
)

// SyncConfig tunes the sync service.
type SyncConfig struct {
	// Accounts are the account ids to reconcile on SyncAll.
	Accounts []uint32

	// BatchSize is the fetch batch size (default: 50).
	BatchSize int

	// WriteRate caps backend writes per second (default: 20).
	WriteRate int
}

// SyncService reconciles mail accounts against the search backend: it indexes
// messages that appeared on the server and removes documents whose messages
// vanished. It never re-indexes a message it has a record for, so the
// backend's duplicate-on-reindex property cannot bite during normal
// operation; on UIDVALIDITY change the mailbox is removed from the backend
// before being indexed afresh.
type SyncService struct {
	sources   driven.MessageSourceFactory
	extractor driven.FragmentExtractor
	state     driven.SyncStateStore
	indexer   driving.IndexerService
	accounts  []uint32
	batchSize int
	limiter   *rate.Limiter

	mu     sync.Mutex
	active map[uint32]bool
}

// NewSyncService creates a new sync service.
func NewSyncService(
	sources driven.MessageSourceFactory,
	extractor driven.FragmentExtractor,
	state driven.SyncStateStore,
	indexer driving.IndexerService,
	cfg SyncConfig,
) *SyncService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.WriteRate <= 0 {
		cfg.WriteRate = DefaultWriteRate
	}

	return &SyncService{
		sources:   sources,
		extractor: extractor,
		state:     state,
		indexer:   indexer,
		accounts:  cfg.Accounts,
		batchSize: cfg.BatchSize,
		limiter:   rate.NewLimiter(rate.Limit(cfg.WriteRate), cfg.WriteRate),
		active:    make(map[uint32]bool),
	}
}

// SyncAll reconciles every configured account. Accounts are independent: one
// failing does not stop the others. The first error is returned after all
// accounts were attempted.
func (s *SyncService) SyncAll(ctx context.Context) ([]domain.SyncReport, error) {
	var reports []domain.SyncReport
	var firstErr error

	for _, accountID := range s.accounts {
		report, err := s.SyncAccount(ctx, accountID)
		if err != nil {
			logger.Warn("sync failed for account %d: %v", accountID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("account %d: %w", accountID, err)
			}
			continue
		}
		reports = append(reports, *report)
	}

	return reports, firstErr
}

// SyncAccount reconciles one account.
func (s *SyncService) SyncAccount(ctx context.Context, accountID uint32) (*domain.SyncReport, error) {
	if err := s.begin(accountID); err != nil {
		return nil, err
	}
	defer s.end(accountID)

	logger.Section(fmt.Sprintf("Sync account %d", accountID))

	src, err := s.sources.Open(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	mailboxes, err := src.Mailboxes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mailboxes: %w", err)
	}

	report := &domain.SyncReport{AccountID: accountID}
	for _, mailbox := range mailboxes {
		if err := s.syncMailbox(ctx, src, accountID, mailbox, report); err != nil {
			return report, fmt.Errorf("mailbox %s: %w", mailbox, err)
		}
		report.Mailboxes++
	}

	return report, nil
}

// Status returns the stored mailbox states for an account.
func (s *SyncService) Status(ctx context.Context, accountID uint32) ([]domain.MailboxState, error) {
	return s.state.MailboxStates(ctx, accountID)
}

// syncMailbox reconciles one mailbox: purge on UIDVALIDITY change, remove
// documents for vanished UIDs, index unknown UIDs, persist state.
func (s *SyncService) syncMailbox(
	ctx context.Context,
	src driven.MessageSource,
	accountID uint32,
	mailbox string,
	report *domain.SyncReport,
) error {
	status, err := src.SelectMailbox(ctx, mailbox)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	state, err := s.state.GetMailboxState(ctx, accountID, mailbox)
	if errors.Is(err, domain.ErrNotFound) {
		state = &domain.MailboxState{AccountID: accountID, Mailbox: mailbox}
	} else if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if state.UIDValidity != 0 && state.UIDValidity != status.UIDValidity {
		logger.Warn("UIDVALIDITY changed for account %d mailbox %s (%d -> %d), re-indexing",
			accountID, mailbox, state.UIDValidity, status.UIDValidity)
		if err := s.purgeMailbox(ctx, accountID, mailbox, report); err != nil {
			return err
		}
		state = &domain.MailboxState{AccountID: accountID, Mailbox: mailbox}
	}

	serverUIDs, err := src.ListUIDs(ctx, mailbox)
	if err != nil {
		return fmt.Errorf("list uids: %w", err)
	}

	known, err := s.state.ListMessages(ctx, accountID, mailbox)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	onServer := make(map[uint32]bool, len(serverUIDs))
	var newUIDs []uint32
	for _, uid := range serverUIDs {
		onServer[uid] = true
		if _, ok := known[uid]; !ok {
			newUIDs = append(newUIDs, uid)
		}
	}

	var goneUIDs []uint32
	var goneDocs []uint32
	for uid, docID := range known {
		if !onServer[uid] {
			goneUIDs = append(goneUIDs, uid)
			goneDocs = append(goneDocs, docID)
		}
	}

	if len(goneUIDs) > 0 {
		if err := s.removeMessages(ctx, accountID, mailbox, goneUIDs, goneDocs); err != nil {
			return err
		}
		report.Removed += len(goneUIDs)
	}

	indexed, lastUID, err := s.indexNew(ctx, src, accountID, mailbox, newUIDs)
	report.Indexed += indexed
	if err != nil {
		return err
	}

	state.UIDValidity = status.UIDValidity
	if lastUID > state.LastUID {
		state.LastUID = lastUID
	}
	state.LastSync = time.Now()

	if err := s.state.SaveMailboxState(ctx, *state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	return nil
}

// indexNew fetches and indexes the given UIDs in batches. Returns how many
// messages were indexed and the highest UID indexed.
func (s *SyncService) indexNew(
	ctx context.Context,
	src driven.MessageSource,
	accountID uint32,
	mailbox string,
	uids []uint32,
) (int, uint32, error) {
	var indexed int
	var lastUID uint32

	for start := 0; start < len(uids); start += s.batchSize {
		end := start + s.batchSize
		if end > len(uids) {
			end = len(uids)
		}

		messages, err := src.FetchMessages(ctx, mailbox, uids[start:end])
		if err != nil {
			return indexed, lastUID, fmt.Errorf("fetch messages: %w", err)
		}

		for _, msg := range messages {
			docID, err := s.state.AllocateDocumentID(ctx, accountID)
			if err != nil {
				return indexed, lastUID, fmt.Errorf("allocate document id: %w", err)
			}

			fragments := s.extractor.Extract(msg)

			if err := s.limiter.Wait(ctx); err != nil {
				return indexed, lastUID, err
			}
			if err := s.indexer.IndexMessage(ctx, accountID, docID, domain.CollectionEmail, fragments); err != nil {
				return indexed, lastUID, fmt.Errorf("index uid %d: %w", msg.UID, err)
			}

			rec := domain.MessageRecord{
				AccountID:  accountID,
				Mailbox:    mailbox,
				UID:        msg.UID,
				DocumentID: docID,
				IndexedAt:  time.Now(),
			}
			if err := s.state.RecordMessage(ctx, rec); err != nil {
				return indexed, lastUID, fmt.Errorf("record uid %d: %w", msg.UID, err)
			}

			indexed++
			if msg.UID > lastUID {
				lastUID = msg.UID
			}
		}
	}

	return indexed, lastUID, nil
}

// removeMessages drops documents for vanished UIDs from the backend, then
// forgets their records.
func (s *SyncService) removeMessages(
	ctx context.Context,
	accountID uint32,
	mailbox string,
	uids, docIDs []uint32,
) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := s.indexer.Remove(ctx, accountID, domain.CollectionEmail, domain.IDList(docIDs)); err != nil {
		return fmt.Errorf("remove documents: %w", err)
	}
	if err := s.state.DeleteMessages(ctx, accountID, mailbox, uids); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}

	logger.Debug("removed %d documents for account %d mailbox %s", len(uids), accountID, mailbox)
	return nil
}

// purgeMailbox removes every indexed document of a mailbox from the backend
// and clears its local records. Used when UIDVALIDITY changes.
func (s *SyncService) purgeMailbox(ctx context.Context, accountID uint32, mailbox string, report *domain.SyncReport) error {
	known, err := s.state.ListMessages(ctx, accountID, mailbox)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	if len(known) > 0 {
		docIDs := make([]uint32, 0, len(known))
		for _, docID := range known {
			docIDs = append(docIDs, docID)
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.indexer.Remove(ctx, accountID, domain.CollectionEmail, domain.IDList(docIDs)); err != nil {
			return fmt.Errorf("purge documents: %w", err)
		}
		report.Removed += len(docIDs)
	}

	if err := s.state.DeleteMailbox(ctx, accountID, mailbox); err != nil {
		return fmt.Errorf("delete mailbox state: %w", err)
	}
	return nil
}

// begin marks an account sync as running.
func (s *SyncService) begin(accountID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[accountID] {
		return domain.ErrSyncInProgress
	}
	s.active[accountID] = true
	return nil
}

// end marks an account sync as finished.
func (s *SyncService) end(accountID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, accountID)
}
