// Package cli wires the cobra command tree that drives the indexer and sync
// services.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/mailfts/internal/adapters/driven/config/file"
	"github.com/custodia-labs/mailfts/internal/adapters/driven/fts/elastic"
	imapsource "github.com/custodia-labs/mailfts/internal/adapters/driven/mailsource/imap"
	"github.com/custodia-labs/mailfts/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/mailfts/internal/core/ports/driven"
	"github.com/custodia-labs/mailfts/internal/core/ports/driving"
	"github.com/custodia-labs/mailfts/internal/core/services"
	"github.com/custodia-labs/mailfts/internal/extract"
	"github.com/custodia-labs/mailfts/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Tests replace these through SetServices; otherwise they
// are built from the configuration on first use.
var (
	indexerService driving.IndexerService
	syncService    driving.SyncService
	stateStore     driven.SyncStateStore
	extractor      driven.FragmentExtractor
)

// stateCloser closes the state store after Execute when the CLI built it.
var stateCloser func() error

// Persistent flags.
var (
	configPath string
	dataDir    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mailfts",
	Short: "Full-text index mail accounts into Elasticsearch",
	Long: `mailfts keeps a full-text search backend in sync with IMAP accounts.
Messages are classified into header, body, attachment and keyword text,
projected into documents, and indexed per account. Removal is account-scoped:
single documents, document sets, or everything an account owns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		switch cmd.Name() {
		case "version", "help", "init", "completion":
			return nil
		}
		return ensureServices()
	},
}

// SetServices injects the services, bypassing configuration-based wiring.
// It returns a cleanup that restores the previous wiring.
func SetServices(
	indexer driving.IndexerService,
	sync driving.SyncService,
	state driven.SyncStateStore,
	ext driven.FragmentExtractor,
) func() {
	oldIndexer, oldSync, oldState, oldExt := indexerService, syncService, stateStore, extractor
	indexerService, syncService, stateStore, extractor = indexer, sync, state, ext
	return func() {
		indexerService, syncService, stateStore, extractor = oldIndexer, oldSync, oldState, oldExt
	}
}

// ensureServices builds the service stack from the configuration file unless
// one was already injected.
func ensureServices() error {
	if indexerService != nil {
		return nil
	}

	cfg, err := configfile.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	fts, err := elastic.NewStore(elastic.Config{
		BaseURL:  cfg.Elasticsearch.URL,
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		Timeout:  cfg.Elasticsearch.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("configuring backend: %w", err)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	stateCloser = store.Close

	accounts := make([]imapsource.AccountConfig, 0, len(cfg.Accounts))
	for _, account := range cfg.Accounts {
		accounts = append(accounts, imapsource.AccountConfig{
			ID:        account.ID,
			Host:      account.Host,
			Port:      account.Port,
			Username:  account.Username,
			Password:  account.Password,
			TLS:       account.TLS,
			Mailboxes: account.Mailboxes,
		})
	}

	indexer := services.NewIndexerService(fts)

	indexerService = indexer
	stateStore = store
	extractor = extract.New()
	syncService = services.NewSyncService(
		imapsource.NewFactory(accounts),
		extractor,
		store,
		indexer,
		services.SyncConfig{
			Accounts:  cfg.AccountIDs(),
			BatchSize: cfg.Sync.BatchSize,
			WriteRate: cfg.Sync.WriteRate,
		},
	)

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.mailfts/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "State directory (default ~/.mailfts/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if stateCloser != nil {
		_ = stateCloser()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
