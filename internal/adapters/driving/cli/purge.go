package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge [account-id]",
	Short: "Remove every document of an account",
	Long: `Deletes all documents owned by the account across every collection,
and forgets the account's sync state so a later sync starts from scratch.`,
	Args: cobra.ExactArgs(1),
	RunE: runPurge,
}

// purgeConfirmed skips the confirmation prompt.
var purgeConfirmed bool

func init() {
	purgeCmd.Flags().BoolVarP(&purgeConfirmed, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}

	if !purgeConfirmed {
		cmd.Printf("This deletes every indexed document of account %d. Continue? [y/N]: ", accountID)
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ctx := context.Background()

	if err := indexerService.RemoveAccount(ctx, accountID); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if stateStore != nil {
		if err := stateStore.DeleteAccount(ctx, accountID); err != nil {
			return fmt.Errorf("clearing sync state: %w", err)
		}
	}

	cmd.Printf("Account %d purged from the index.\n", accountID)
	return nil
}
