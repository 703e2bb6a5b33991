package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/mailfts/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/mailfts/internal/core/domain"
	"github.com/custodia-labs/mailfts/internal/core/ports/driven"
)

var _ driven.SyncStateStore = (*Store)(nil)

// Store is the SQLite-backed sync state store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.mailfts/data/state.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mailfts", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "state.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// GetMailboxState retrieves sync state for one mailbox of an account.
func (s *Store) GetMailboxState(ctx context.Context, accountID uint32, mailbox string) (*domain.MailboxState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT account_id, mailbox, uid_validity, last_uid, last_sync
		FROM mailbox_states WHERE account_id = ? AND mailbox = ?
	`, accountID, mailbox)

	var state domain.MailboxState
	var lastSync sql.NullTime
	if err := row.Scan(&state.AccountID, &state.Mailbox, &state.UIDValidity, &state.LastUID, &lastSync); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning mailbox state: %w", err)
	}

	if lastSync.Valid {
		state.LastSync = lastSync.Time
	}

	return &state, nil
}

// SaveMailboxState stores or updates mailbox sync state.
func (s *Store) SaveMailboxState(ctx context.Context, state domain.MailboxState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mailbox_states (account_id, mailbox, uid_validity, last_uid, last_sync)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(account_id, mailbox) DO UPDATE SET
			uid_validity = excluded.uid_validity,
			last_uid = excluded.last_uid,
			last_sync = excluded.last_sync
	`, state.AccountID, state.Mailbox, state.UIDValidity, state.LastUID, state.LastSync)

	if err != nil {
		return fmt.Errorf("saving mailbox state: %w", err)
	}
	return nil
}

// AllocateDocumentID returns the next unused document id for an account.
// Allocation is transactional so concurrent syncs never share an id.
func (s *Store) AllocateDocumentID(ctx context.Context, accountID uint32) (uint32, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO document_ids (account_id, next_id)
		VALUES (?, 1)
		ON CONFLICT(account_id) DO UPDATE SET next_id = next_id + 1
	`, accountID)
	if err != nil {
		return 0, fmt.Errorf("advancing document id: %w", err)
	}

	var id uint32
	row := tx.QueryRowContext(ctx, "SELECT next_id FROM document_ids WHERE account_id = ?", accountID)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("reading document id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// RecordMessage links an indexed message to its document id.
func (s *Store) RecordMessage(ctx context.Context, rec domain.MessageRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message_records (account_id, mailbox, uid, document_id, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(account_id, mailbox, uid) DO UPDATE SET
			document_id = excluded.document_id,
			indexed_at = excluded.indexed_at
	`, rec.AccountID, rec.Mailbox, rec.UID, rec.DocumentID, rec.IndexedAt)

	if err != nil {
		return fmt.Errorf("recording message: %w", err)
	}
	return nil
}

// ListMessages returns uid → document id for every recorded message.
func (s *Store) ListMessages(ctx context.Context, accountID uint32, mailbox string) (map[uint32]uint32, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid, document_id FROM message_records
		WHERE account_id = ? AND mailbox = ?
	`, accountID, mailbox)
	if err != nil {
		return nil, fmt.Errorf("querying message records: %w", err)
	}
	defer rows.Close()

	known := make(map[uint32]uint32)
	for rows.Next() {
		var uid, docID uint32
		if err := rows.Scan(&uid, &docID); err != nil {
			return nil, fmt.Errorf("scanning message record: %w", err)
		}
		known[uid] = docID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message records: %w", err)
	}

	return known, nil
}

// DeleteMessages removes message records for the given UIDs.
func (s *Store) DeleteMessages(ctx context.Context, accountID uint32, mailbox string, uids []uint32) error {
	if len(uids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(uids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(uids)+2)
	args = append(args, accountID, mailbox)
	for _, uid := range uids {
		args = append(args, uid)
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM message_records WHERE account_id = ? AND mailbox = ? AND uid IN ("+placeholders+")",
		args...)
	if err != nil {
		return fmt.Errorf("deleting message records: %w", err)
	}
	return nil
}

// DeleteMailbox removes every record and the state for a mailbox.
func (s *Store) DeleteMailbox(ctx context.Context, accountID uint32, mailbox string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM message_records WHERE account_id = ? AND mailbox = ?", accountID, mailbox); err != nil {
		return fmt.Errorf("deleting message records: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM mailbox_states WHERE account_id = ? AND mailbox = ?", accountID, mailbox); err != nil {
		return fmt.Errorf("deleting mailbox state: %w", err)
	}
	return nil
}

// DeleteAccount removes all state for an account. The document id counter is
// kept so a re-added account never reuses ids still present in the backend.
func (s *Store) DeleteAccount(ctx context.Context, accountID uint32) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM message_records WHERE account_id = ?", accountID); err != nil {
		return fmt.Errorf("deleting message records: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM mailbox_states WHERE account_id = ?", accountID); err != nil {
		return fmt.Errorf("deleting mailbox states: %w", err)
	}
	return nil
}

// MailboxStates returns the stored state of every synced mailbox of an account.
func (s *Store) MailboxStates(ctx context.Context, accountID uint32) ([]domain.MailboxState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, mailbox, uid_validity, last_uid, last_sync
		FROM mailbox_states WHERE account_id = ?
		ORDER BY mailbox
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying mailbox states: %w", err)
	}
	defer rows.Close()

	var states []domain.MailboxState //nolint:prealloc // size unknown from query
	for rows.Next() {
		var state domain.MailboxState
		var lastSync sql.NullTime
		if err := rows.Scan(&state.AccountID, &state.Mailbox, &state.UIDValidity, &state.LastUID, &lastSync); err != nil {
			return nil, fmt.Errorf("scanning mailbox state: %w", err)
		}
		if lastSync.Valid {
			state.LastSync = lastSync.Time
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mailbox states: %w", err)
	}

	return states, nil
}
