package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/custodia-labs/mailfts/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// mockIndexer implements driving.IndexerService for testing.
type mockIndexer struct {
	indexed   []uint32
	removed   []uint32
	purged    []uint32
	indexErr  error
	removeErr error
}

func (m *mockIndexer) IndexMessage(
	_ context.Context,
	_, documentID uint32,
	_ domain.Collection,
	_ []domain.Fragment,
) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexed = append(m.indexed, documentID)
	return nil
}

func (m *mockIndexer) Remove(_ context.Context, _ uint32, _ domain.Collection, ids domain.DocumentIDSet) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, ids.Enumerate()...)
	return nil
}

func (m *mockIndexer) RemoveAccount(_ context.Context, accountID uint32) error {
	m.purged = append(m.purged, accountID)
	return nil
}

// mockSync implements driving.SyncService for testing.
type mockSync struct {
	reports []domain.SyncReport
	states  []domain.MailboxState
	syncErr error
}

func (m *mockSync) SyncAccount(_ context.Context, accountID uint32) (*domain.SyncReport, error) {
	if m.syncErr != nil {
		return nil, m.syncErr
	}
	return &domain.SyncReport{AccountID: accountID, Indexed: 2, Removed: 1, Mailboxes: 1}, nil
}

func (m *mockSync) SyncAll(_ context.Context) ([]domain.SyncReport, error) {
	return m.reports, m.syncErr
}

func (m *mockSync) Status(_ context.Context, _ uint32) ([]domain.MailboxState, error) {
	return m.states, nil
}

// mockExtractor implements driven.FragmentExtractor for testing.
type mockExtractor struct{}

func (mockExtractor) Extract(msg domain.RawMessage) []domain.Fragment {
	return []domain.Fragment{domain.BodyFragment(string(msg.Raw))}
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() (*mockIndexer, *mockSync, func()) {
	indexer := &mockIndexer{}
	sync := &mockSync{
		states: []domain.MailboxState{{
			AccountID:   7,
			Mailbox:     "INBOX",
			UIDValidity: 100,
			LastUID:     42,
			LastSync:    time.Now(),
		}},
	}
	cleanup := SetServices(indexer, sync, memory.NewSyncStateStore(), mockExtractor{})
	return indexer, sync, cleanup
}

// execute runs the root command with args, capturing output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
