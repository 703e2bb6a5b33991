package domain

// RawMessage is an unparsed message as fetched from a mail source, before
// extraction into fragments.
type RawMessage struct {
	// UID is the message UID within its mailbox.
	UID uint32

	// Flags are the message flags and keywords as reported by the server.
	Flags []string

	// Raw is the full RFC 822 message.
	Raw []byte
}

// MailboxStatus describes a mailbox as selected on the server.
type MailboxStatus struct {
	// UIDValidity invalidates previously recorded UIDs when it changes.
	UIDValidity uint32

	// UIDNext is the server's predicted next UID.
	UIDNext uint32

	// NumMessages is the number of messages currently in the mailbox.
	NumMessages uint32
}
