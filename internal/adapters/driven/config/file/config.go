// Package file loads and persists the TOML configuration: the Elasticsearch
// endpoint, the IMAP accounts to index, and sync tuning.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/mailfts/internal/core/domain"
)

// Defaults applied when the file omits a value.
const (
	DefaultElasticsearchURL = "http://localhost:9200"
	DefaultTimeoutSeconds   = 30
	DefaultBatchSize        = 50
	DefaultWriteRate        = 20
)

// Config is the on-disk configuration.
type Config struct {
	Elasticsearch ElasticsearchConfig `toml:"elasticsearch"`
	Sync          SyncConfig          `toml:"sync"`
	Accounts      []AccountConfig     `toml:"accounts"`
}

// ElasticsearchConfig configures the index backend connection.
type ElasticsearchConfig struct {
	URL            string `toml:"url"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c ElasticsearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SyncConfig tunes the reconciliation loop.
type SyncConfig struct {
	// BatchSize is how many messages are fetched per IMAP round trip.
	BatchSize int `toml:"batch_size"`
	// WriteRate caps index writes per second.
	WriteRate int `toml:"write_rate"`
}

// AccountConfig describes one IMAP account.
type AccountConfig struct {
	ID        uint32   `toml:"id"`
	Host      string   `toml:"host"`
	Port      string   `toml:"port"`
	Username  string   `toml:"username"`
	Password  string   `toml:"password"`
	TLS       bool     `toml:"tls"`
	Mailboxes []string `toml:"mailboxes"`
}

// DefaultPath returns the default configuration file path,
// ~/.mailfts/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".mailfts", "config.toml"), nil
}

// Default returns a configuration with every default applied and no accounts.
func Default() *Config {
	return &Config{
		Elasticsearch: ElasticsearchConfig{
			URL:            DefaultElasticsearchURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Sync: SyncConfig{
			BatchSize: DefaultBatchSize,
			WriteRate: DefaultWriteRate,
		},
	}
}

// Load reads the configuration file at path. An empty path means the default
// location. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path with restricted permissions, creating
// the directory if needed. An empty path means the default location.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Restricted permissions: the file holds account passwords.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyDefaults fills in zero values.
func (c *Config) applyDefaults() {
	if c.Elasticsearch.URL == "" {
		c.Elasticsearch.URL = DefaultElasticsearchURL
	}
	if c.Elasticsearch.TimeoutSeconds <= 0 {
		c.Elasticsearch.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Sync.BatchSize <= 0 {
		c.Sync.BatchSize = DefaultBatchSize
	}
	if c.Sync.WriteRate <= 0 {
		c.Sync.WriteRate = DefaultWriteRate
	}
}

// validate rejects configurations the services cannot run with.
func (c *Config) validate() error {
	seen := make(map[uint32]bool, len(c.Accounts))
	for _, account := range c.Accounts {
		if seen[account.ID] {
			return fmt.Errorf("%w: duplicate account id %d", domain.ErrInvalidInput, account.ID)
		}
		seen[account.ID] = true

		if account.Host == "" {
			return fmt.Errorf("%w: account %d has no host", domain.ErrInvalidInput, account.ID)
		}
	}
	return nil
}

// AccountIDs returns the configured account ids in file order.
func (c *Config) AccountIDs() []uint32 {
	ids := make([]uint32, 0, len(c.Accounts))
	for _, account := range c.Accounts {
		ids = append(ids, account.ID)
	}
	return ids
}

// Account returns the configuration of one account.
func (c *Config) Account(id uint32) (AccountConfig, error) {
	for _, account := range c.Accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return AccountConfig{}, fmt.Errorf("account %d: %w", id, domain.ErrUnknownAccount)
}
