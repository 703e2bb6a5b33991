package driven

import (
	"context"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// SyncStateStore persists sync progress and the account-scoped document id
// space. Document ids are allocated here, monotonically per account, so that
// backend documents stay addressable after IMAP UIDs are invalidated.
type SyncStateStore interface {
	// GetMailboxState retrieves sync state for one mailbox of an account.
	// Returns domain.ErrNotFound when the mailbox was never synced.
	GetMailboxState(ctx context.Context, accountID uint32, mailbox string) (*domain.MailboxState, error)

	// SaveMailboxState stores or updates mailbox sync state.
	SaveMailboxState(ctx context.Context, state domain.MailboxState) error

	// AllocateDocumentID returns the next unused document id for an account.
	AllocateDocumentID(ctx context.Context, accountID uint32) (uint32, error)

	// RecordMessage links an indexed message to its document id.
	RecordMessage(ctx context.Context, rec domain.MessageRecord) error

	// ListMessages returns uid → document id for every recorded message in
	// a mailbox.
	ListMessages(ctx context.Context, accountID uint32, mailbox string) (map[uint32]uint32, error)

	// DeleteMessages removes message records for the given UIDs.
	DeleteMessages(ctx context.Context, accountID uint32, mailbox string, uids []uint32) error

	// DeleteMailbox removes every record and the state for a mailbox.
	DeleteMailbox(ctx context.Context, accountID uint32, mailbox string) error

	// DeleteAccount removes all state for an account.
	DeleteAccount(ctx context.Context, accountID uint32) error

	// MailboxStates returns the stored state of every synced mailbox of an
	// account, for status reporting.
	MailboxStates(ctx context.Context, accountID uint32) ([]domain.MailboxState, error)
}
