package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

var removeCmd = &cobra.Command{
	Use:   "remove [collection] [doc-id...]",
	Short: "Remove documents from the index",
	Long: `Removes the identified documents of one account from a collection.
Only documents owned by the given account are affected; ids of other
accounts are left untouched.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRemove,
}

// removeAccountID scopes the removal.
var removeAccountID uint32

func init() {
	removeCmd.Flags().Uint32Var(&removeAccountID, "account", 0, "Account id owning the documents")
	_ = removeCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	collection, err := domain.ParseCollection(args[0])
	if err != nil {
		return err
	}

	ids, err := parseDocumentIDs(args[1:])
	if err != nil {
		return err
	}

	if err := indexerService.Remove(context.Background(), removeAccountID, collection, ids); err != nil {
		return fmt.Errorf("removal failed: %w", err)
	}

	cmd.Printf("Removed %d document(s) from %s for account %d.\n",
		len(ids), collection.IndexName(), removeAccountID)
	return nil
}
