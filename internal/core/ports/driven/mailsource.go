package driven

import (
	"context"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// MessageSource reads messages from one mail account, typically over IMAP.
// A source is connected to a single account; Close releases the connection.
type MessageSource interface {
	// Mailboxes lists the mailboxes to reconcile.
	Mailboxes(ctx context.Context) ([]string, error)

	// SelectMailbox opens a mailbox read-only and reports its status.
	SelectMailbox(ctx context.Context, mailbox string) (*domain.MailboxStatus, error)

	// ListUIDs returns every UID in the selected mailbox.
	ListUIDs(ctx context.Context, mailbox string) ([]uint32, error)

	// FetchMessages fetches full messages with flags for the given UIDs in
	// the selected mailbox. UIDs unknown to the server are skipped.
	FetchMessages(ctx context.Context, mailbox string, uids []uint32) ([]domain.RawMessage, error)

	// Close logs out and releases the connection.
	Close() error
}

// MessageSourceFactory opens a MessageSource for a configured account.
type MessageSourceFactory interface {
	// Open connects and authenticates the source for an account.
	Open(ctx context.Context, accountID uint32) (MessageSource, error)
}
