// Package imap provides the IMAP implementation of the message source port,
// built on go-imap v2.
package imap

import (
	"context"
	"fmt"
	"sort"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/custodia-labs/mailfts/internal/core/domain"
	"github.com/custodia-labs/mailfts/internal/core/ports/driven"
	"github.com/custodia-labs/mailfts/internal/logger"
)

// Ensure the adapter implements the ports.
var (
	_ driven.MessageSource        = (*Source)(nil)
	_ driven.MessageSourceFactory = (*Factory)(nil)
)

// DefaultPort is the implicit-TLS IMAP port used when an account does not
// name one.
const DefaultPort = "993"

// AccountConfig describes one IMAP account to index.
type AccountConfig struct {
	ID       uint32
	Host     string
	Port     string
	Username string
	Password string
	// TLS selects implicit TLS; when false the connection is upgraded
	// with STARTTLS.
	TLS bool
	// Mailboxes restricts reconciliation to the named mailboxes. Empty
	// means every selectable mailbox on the server.
	Mailboxes []string
}

// addr returns the dial address for the account.
func (c AccountConfig) addr() string {
	port := c.Port
	if port == "" {
		port = DefaultPort
	}
	return c.Host + ":" + port
}

// validate checks the fields required to connect.
func (c AccountConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("account %d: %w: host is required", c.ID, domain.ErrInvalidInput)
	}
	if c.Username == "" {
		return fmt.Errorf("account %d: %w: username is required", c.ID, domain.ErrInvalidInput)
	}
	return nil
}

// Source is a connected, authenticated IMAP session for one account.
type Source struct {
	client    *imapclient.Client
	account   AccountConfig
	mailboxes []string
}

// connect dials the server and authenticates.
func connect(account AccountConfig) (*imapclient.Client, error) {
	addr := account.addr()

	var client *imapclient.Client
	var err error
	if account.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(account.Username, account.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authentication failed for %s: %w", account.Username, err)
	}

	logger.Debug("imap: connected to %s as %s", addr, account.Username)
	return client, nil
}

// Mailboxes lists the mailboxes to reconcile: the configured set when one is
// given, otherwise every selectable mailbox on the server.
func (s *Source) Mailboxes(ctx context.Context) ([]string, error) {
	if len(s.account.Mailboxes) > 0 {
		return s.account.Mailboxes, nil
	}
	if s.mailboxes != nil {
		return s.mailboxes, nil
	}

	listCmd := s.client.List("", "*", nil)
	boxes, err := listCmd.Collect()
	if err != nil {
		return nil, fmt.Errorf("listing mailboxes: %w", err)
	}

	var names []string
	for _, box := range boxes {
		if selectableMailbox(box) {
			names = append(names, box.Mailbox)
		}
	}
	s.mailboxes = names
	return names, nil
}

// selectableMailbox reports whether a LIST entry can be selected.
func selectableMailbox(box *imap.ListData) bool {
	for _, attr := range box.Attrs {
		if attr == imap.MailboxAttrNoSelect {
			return false
		}
	}
	return true
}

// SelectMailbox opens a mailbox read-only and reports its status.
func (s *Source) SelectMailbox(ctx context.Context, mailbox string) (*domain.MailboxStatus, error) {
	data, err := s.client.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait()
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", mailbox, err)
	}
	return &domain.MailboxStatus{
		UIDValidity: data.UIDValidity,
		UIDNext:     uint32(data.UIDNext),
		NumMessages: data.NumMessages,
	}, nil
}

// ListUIDs returns every UID in the selected mailbox.
func (s *Source) ListUIDs(ctx context.Context, mailbox string) ([]uint32, error) {
	searchData, err := s.client.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", mailbox, err)
	}

	var uids []uint32
	for _, uid := range searchData.AllUIDs() {
		uids = append(uids, uint32(uid))
	}
	return uids, nil
}

// FetchMessages fetches full messages with flags for the given UIDs. The
// bodies are fetched with Peek so indexing does not mark messages seen.
func (s *Source) FetchMessages(ctx context.Context, mailbox string, uids []uint32) ([]domain.RawMessage, error) {
	if len(uids) == 0 {
		return nil, nil
	}

	imapUIDs := make([]imap.UID, len(uids))
	for i, uid := range uids {
		imapUIDs[i] = imap.UID(uid)
	}
	uidSet := imap.UIDSetNum(imapUIDs...)

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := s.client.Fetch(uidSet, &imap.FetchOptions{
		Flags:       true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	var messages []domain.RawMessage
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			logger.Debug("imap: skipping unreadable message in %s: %v", mailbox, err)
			continue
		}

		raw := buf.FindBodySection(bodySection)
		if raw == nil {
			continue
		}

		var flags []string
		for _, flag := range buf.Flags {
			flags = append(flags, string(flag))
		}

		messages = append(messages, domain.RawMessage{
			UID:   uint32(buf.UID),
			Flags: flags,
			Raw:   raw,
		})
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, fmt.Errorf("fetching from %s: %w", mailbox, err)
	}
	return messages, nil
}

// Close logs out and releases the connection.
func (s *Source) Close() error {
	if err := s.client.Logout().Wait(); err != nil {
		return s.client.Close()
	}
	return s.client.Close()
}

// Factory opens IMAP sources for configured accounts.
type Factory struct {
	accounts map[uint32]AccountConfig
}

// NewFactory creates a source factory over the given account configurations.
func NewFactory(accounts []AccountConfig) *Factory {
	byID := make(map[uint32]AccountConfig, len(accounts))
	for _, account := range accounts {
		byID[account.ID] = account
	}
	return &Factory{accounts: byID}
}

// Open connects and authenticates a source for the account.
func (f *Factory) Open(ctx context.Context, accountID uint32) (driven.MessageSource, error) {
	account, ok := f.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountID, domain.ErrUnknownAccount)
	}
	if err := account.validate(); err != nil {
		return nil, err
	}

	client, err := connect(account)
	if err != nil {
		return nil, err
	}
	return &Source{client: client, account: account}, nil
}

// Accounts returns the configured account ids in ascending order.
func (f *Factory) Accounts() []uint32 {
	var ids []uint32
	for id := range f.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
