package domain

import "time"

// MailboxState tracks sync progress for one mailbox of one account.
type MailboxState struct {
	// AccountID is the owning account.
	AccountID uint32

	// Mailbox is the mailbox name on the server (e.g. "INBOX").
	Mailbox string

	// UIDValidity is the server's UIDVALIDITY at the last sync. When it
	// changes, every UID previously recorded for the mailbox is void.
	UIDValidity uint32

	// LastUID is the highest UID seen in the mailbox.
	LastUID uint32

	// LastSync is when the mailbox was last reconciled.
	LastSync time.Time
}

// MessageRecord links an indexed message to the document id it was indexed
// under. Document ids are allocated per account and outlive IMAP UIDs, which
// are only unique within a mailbox.
type MessageRecord struct {
	// AccountID is the owning account.
	AccountID uint32

	// Mailbox is the mailbox the message lives in.
	Mailbox string

	// UID is the message UID within the mailbox.
	UID uint32

	// DocumentID is the id the message was indexed under.
	DocumentID uint32

	// IndexedAt is when the message was indexed.
	IndexedAt time.Time
}

// SyncReport summarises one account reconciliation.
type SyncReport struct {
	// AccountID is the reconciled account.
	AccountID uint32

	// Indexed counts newly indexed messages.
	Indexed int

	// Removed counts documents removed from the backend.
	Removed int

	// Mailboxes counts mailboxes visited.
	Mailboxes int
}
