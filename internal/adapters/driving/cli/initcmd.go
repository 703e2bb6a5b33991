package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/mailfts/internal/adapters/driven/config/file"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Creates a configuration file with defaults at the --config path
(or ~/.mailfts/config.toml). Existing files are left untouched.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	cfg := configfile.Default()
	cfg.Accounts = []configfile.AccountConfig{{
		ID:       1,
		Host:     "imap.example.com",
		Port:     "993",
		Username: "user@example.com",
		Password: "changeme",
		TLS:      true,
	}}

	if err := configfile.Save(cfg, path); err != nil {
		return err
	}

	cmd.Printf("Wrote starter configuration to %s.\n", path)
	cmd.Println("Edit the account credentials before running sync.")
	return nil
}
