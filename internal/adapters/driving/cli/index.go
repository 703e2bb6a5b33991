package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index [collection] [file]",
	Short: "Index a single message file",
	Long: `Reads an RFC 822 message file, classifies its text into fragments,
and indexes the projected document into the given collection
(email, contact or calendar).`,
	Args: cobra.ExactArgs(2),
	RunE: runIndex,
}

// Flags for the index command.
var (
	indexAccountID  uint32
	indexDocumentID uint32
)

func init() {
	indexCmd.Flags().Uint32Var(&indexAccountID, "account", 0, "Account id owning the document")
	indexCmd.Flags().Uint32Var(&indexDocumentID, "id", 0, "Document id (0 allocates the next free id)")
	_ = indexCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil || extractor == nil {
		return errors.New("indexer service not configured")
	}

	collection, err := domain.ParseCollection(args[0])
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading message file: %w", err)
	}

	ctx := context.Background()

	documentID := indexDocumentID
	if documentID == 0 {
		if stateStore == nil {
			return errors.New("state store not configured")
		}
		documentID, err = stateStore.AllocateDocumentID(ctx, indexAccountID)
		if err != nil {
			return fmt.Errorf("allocating document id: %w", err)
		}
	}

	fragments := extractor.Extract(domain.RawMessage{Raw: raw})

	if err := indexerService.IndexMessage(ctx, indexAccountID, documentID, collection, fragments); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %s as document %d in %s for account %d.\n",
		args[1], documentID, collection.IndexName(), indexAccountID)
	return nil
}
