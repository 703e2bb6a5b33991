package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync [account-id]",
	Short: "Synchronise accounts into the index",
	Long: `Reconciles IMAP accounts against the search backend.
New messages are indexed, vanished messages are removed from the index.
If an account ID is provided, only that account is synchronised.
Otherwise, all configured accounts are synchronised.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		accountID, err := parseAccountID(args[0])
		if err != nil {
			return err
		}

		cmd.Printf("Synchronising account %d...\n", accountID)

		report, err := syncService.SyncAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		printReport(cmd, *report)
		return nil
	}

	cmd.Println("Synchronising all accounts...")

	reports, err := syncService.SyncAll(ctx)
	for _, report := range reports {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Println("All accounts synchronised successfully.")
	return nil
}

// printReport writes one account's sync outcome.
func printReport(cmd *cobra.Command, report domain.SyncReport) {
	cmd.Printf("Account %d: %d indexed, %d removed across %d mailboxes\n",
		report.AccountID, report.Indexed, report.Removed, report.Mailboxes)
}
