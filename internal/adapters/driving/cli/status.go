package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [account-id]",
	Short: "Show sync state for an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}

	states, err := syncService.Status(context.Background(), accountID)
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	if len(states) == 0 {
		cmd.Printf("Account %d has never been synchronised.\n", accountID)
		return nil
	}

	cmd.Printf("Account %d:\n\n", accountID)
	for _, state := range states {
		cmd.Printf("  %s\n", state.Mailbox)
		cmd.Printf("    UIDVALIDITY: %d\n", state.UIDValidity)
		cmd.Printf("    Last UID:    %d\n", state.LastUID)
		if !state.LastSync.IsZero() {
			cmd.Printf("    Last sync:   %s\n", state.LastSync.Format("2006-01-02 15:04:05"))
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d mailboxes\n", len(states))
	return nil
}
