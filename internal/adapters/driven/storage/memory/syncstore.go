// Package memory provides in-memory store implementations, used in tests and
// for ephemeral runs where sync state need not survive the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/mailfts/internal/core/domain"
	"github.com/custodia-labs/mailfts/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
type SyncStateStore struct {
	mu      sync.RWMutex
	states  map[string]domain.MailboxState
	records map[string]map[uint32]uint32
	nextID  map[uint32]uint32
}

// NewSyncStateStore creates a new in-memory sync state store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{
		states:  make(map[string]domain.MailboxState),
		records: make(map[string]map[uint32]uint32),
		nextID:  make(map[uint32]uint32),
	}
}

func mailboxKey(accountID uint32, mailbox string) string {
	return fmt.Sprintf("%d/%s", accountID, mailbox)
}

// GetMailboxState retrieves sync state for one mailbox of an account.
func (s *SyncStateStore) GetMailboxState(_ context.Context, accountID uint32, mailbox string) (*domain.MailboxState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[mailboxKey(accountID, mailbox)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// SaveMailboxState stores or updates mailbox sync state.
func (s *SyncStateStore) SaveMailboxState(_ context.Context, state domain.MailboxState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[mailboxKey(state.AccountID, state.Mailbox)] = state
	return nil
}

// AllocateDocumentID returns the next unused document id for an account.
func (s *SyncStateStore) AllocateDocumentID(_ context.Context, accountID uint32) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID[accountID]++
	return s.nextID[accountID], nil
}

// RecordMessage links an indexed message to its document id.
func (s *SyncStateStore) RecordMessage(_ context.Context, rec domain.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := mailboxKey(rec.AccountID, rec.Mailbox)
	if s.records[key] == nil {
		s.records[key] = make(map[uint32]uint32)
	}
	s.records[key][rec.UID] = rec.DocumentID
	return nil
}

// ListMessages returns uid → document id for every recorded message.
func (s *SyncStateStore) ListMessages(_ context.Context, accountID uint32, mailbox string) (map[uint32]uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint32]uint32)
	for uid, docID := range s.records[mailboxKey(accountID, mailbox)] {
		out[uid] = docID
	}
	return out, nil
}

// DeleteMessages removes message records for the given UIDs.
func (s *SyncStateStore) DeleteMessages(_ context.Context, accountID uint32, mailbox string, uids []uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[mailboxKey(accountID, mailbox)]
	for _, uid := range uids {
		delete(recs, uid)
	}
	return nil
}

// DeleteMailbox removes every record and the state for a mailbox.
func (s *SyncStateStore) DeleteMailbox(_ context.Context, accountID uint32, mailbox string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := mailboxKey(accountID, mailbox)
	delete(s.states, key)
	delete(s.records, key)
	return nil
}

// DeleteAccount removes all state for an account. The document id counter is
// kept so a re-added account never reuses ids still present in the backend.
func (s *SyncStateStore) DeleteAccount(_ context.Context, accountID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := fmt.Sprintf("%d/", accountID)
	for key := range s.states {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.states, key)
		}
	}
	for key := range s.records {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.records, key)
		}
	}
	return nil
}

// MailboxStates returns the stored state of every synced mailbox of an account.
func (s *SyncStateStore) MailboxStates(_ context.Context, accountID uint32) ([]domain.MailboxState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MailboxState
	for _, state := range s.states {
		if state.AccountID == accountID {
			out = append(out, state)
		}
	}
	return out, nil
}
