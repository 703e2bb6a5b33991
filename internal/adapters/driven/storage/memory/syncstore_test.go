package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

func TestNewSyncStateStore(t *testing.T) {
	store := NewSyncStateStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.states)
	assert.NotNil(t, store.records)
}

func TestSyncStateStore_MailboxState_Roundtrip(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	now := time.Now()
	state := domain.MailboxState{
		AccountID:   7,
		Mailbox:     "INBOX",
		UIDValidity: 1234,
		LastUID:     99,
		LastSync:    now,
	}

	require.NoError(t, store.SaveMailboxState(ctx, state))

	saved, err := store.GetMailboxState(ctx, 7, "INBOX")
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), saved.UIDValidity)
	assert.Equal(t, uint32(99), saved.LastUID)
	assert.Equal(t, now.Unix(), saved.LastSync.Unix())
}

func TestSyncStateStore_GetMailboxState_NotFound(t *testing.T) {
	store := NewSyncStateStore()

	_, err := store.GetMailboxState(context.Background(), 7, "INBOX")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncStateStore_AllocateDocumentID_Monotonic(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	first, err := store.AllocateDocumentID(ctx, 1)
	require.NoError(t, err)
	second, err := store.AllocateDocumentID(ctx, 1)
	require.NoError(t, err)
	assert.Greater(t, second, first)

	// Accounts have independent id spaces.
	other, err := store.AllocateDocumentID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, first, other)
}

func TestSyncStateStore_Records(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	for uid, docID := range map[uint32]uint32{10: 1, 11: 2, 12: 3} {
		require.NoError(t, store.RecordMessage(ctx, domain.MessageRecord{
			AccountID:  7,
			Mailbox:    "INBOX",
			UID:        uid,
			DocumentID: docID,
			IndexedAt:  time.Now(),
		}))
	}

	known, err := store.ListMessages(ctx, 7, "INBOX")
	require.NoError(t, err)
	assert.Equal(t, map[uint32]uint32{10: 1, 11: 2, 12: 3}, known)

	require.NoError(t, store.DeleteMessages(ctx, 7, "INBOX", []uint32{10, 12}))

	known, err = store.ListMessages(ctx, 7, "INBOX")
	require.NoError(t, err)
	assert.Equal(t, map[uint32]uint32{11: 2}, known)
}

func TestSyncStateStore_DeleteMailbox(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	require.NoError(t, store.SaveMailboxState(ctx, domain.MailboxState{AccountID: 7, Mailbox: "INBOX"}))
	require.NoError(t, store.RecordMessage(ctx, domain.MessageRecord{AccountID: 7, Mailbox: "INBOX", UID: 1, DocumentID: 1}))

	require.NoError(t, store.DeleteMailbox(ctx, 7, "INBOX"))

	_, err := store.GetMailboxState(ctx, 7, "INBOX")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	known, err := store.ListMessages(ctx, 7, "INBOX")
	require.NoError(t, err)
	assert.Empty(t, known)
}

func TestSyncStateStore_DeleteAccount(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	require.NoError(t, store.SaveMailboxState(ctx, domain.MailboxState{AccountID: 7, Mailbox: "INBOX"}))
	require.NoError(t, store.SaveMailboxState(ctx, domain.MailboxState{AccountID: 7, Mailbox: "Sent"}))
	require.NoError(t, store.SaveMailboxState(ctx, domain.MailboxState{AccountID: 8, Mailbox: "INBOX"}))

	require.NoError(t, store.DeleteAccount(ctx, 7))

	states, err := store.MailboxStates(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, states)

	// Other accounts untouched.
	states, err = store.MailboxStates(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, states, 1)
}
