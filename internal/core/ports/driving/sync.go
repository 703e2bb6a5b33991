package driving

import (
	"context"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// SyncService reconciles mail accounts against the search backend.
type SyncService interface {
	// SyncAccount reconciles one account and reports what changed.
	SyncAccount(ctx context.Context, accountID uint32) (*domain.SyncReport, error)

	// SyncAll reconciles every configured account. One account failing does
	// not stop the others; the first error is returned after all accounts
	// were attempted.
	SyncAll(ctx context.Context) ([]domain.SyncReport, error)

	// Status returns the stored mailbox states for an account.
	Status(ctx context.Context, accountID uint32) ([]domain.MailboxState, error)
}
