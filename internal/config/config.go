package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file created in the data directory.
const FileName = "fintrack.yaml"

// APIKeyEnv is consulted when ai.api_key is empty.
const APIKeyEnv = "GEMINI_API_KEY"

// Config represents the top-level fintrack.yaml configuration.
type Config struct {
	Currency  string          `yaml:"currency"`
	Storage   StorageConfig   `yaml:"storage"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Recurring RecurringConfig `yaml:"recurring"`
	Notify    NotifyConfig    `yaml:"notify"`
	Git       GitConfig       `yaml:"git"`
	AI        AIConfig        `yaml:"ai"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`        // "file" or "sqlite"
	Path    string `yaml:"path,omitempty"` // sqlite database, relative to the data dir
}

// ReconcileConfig controls loan balance correction.
type ReconcileConfig struct {
	MaterialityThreshold float64 `yaml:"materiality_threshold"`
}

// SnapshotConfig controls the net-worth history.
type SnapshotConfig struct {
	MaxHistory int `yaml:"max_history"`
}

// RecurringConfig shapes the transactions posted for recurring items.
type RecurringConfig struct {
	DescriptionPrefix string `yaml:"description_prefix"`
	Note              string `yaml:"note"`
	Source            string `yaml:"source"`
}

// NotifyConfig controls console notifications.
type NotifyConfig struct {
	DismissAfter string `yaml:"dismiss_after"` // Go duration, e.g. "5s"
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// AIConfig configures the budget advisor.
type AIConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key,omitempty"`
}

// Duration parses DismissAfter, falling back to five seconds.
func (n NotifyConfig) Duration() time.Duration {
	d, err := time.ParseDuration(n.DismissAfter)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Key returns the configured API key or the value of GEMINI_API_KEY.
func (a AIConfig) Key() string {
	if a.APIKey != "" {
		return a.APIKey
	}
	return os.Getenv(APIKeyEnv)
}

// Load reads a fintrack.yaml file from disk. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Reconcile.MaterialityThreshold < 0 {
		return fmt.Errorf("reconcile.materiality_threshold: must not be negative, got %v", c.Reconcile.MaterialityThreshold)
	}
	if c.Snapshot.MaxHistory < 0 {
		return fmt.Errorf("snapshot.max_history: must not be negative, got %d", c.Snapshot.MaxHistory)
	}
	if c.Notify.DismissAfter != "" {
		if _, err := time.ParseDuration(c.Notify.DismissAfter); err != nil {
			return fmt.Errorf("notify.dismiss_after: %w", err)
		}
	}
	switch c.Recurring.Source {
	case "MANUAL", "RECURRING_AUTO":
	default:
		return fmt.Errorf("recurring.source: must be MANUAL or RECURRING_AUTO, got %q", c.Recurring.Source)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Currency: "TWD",
		Storage: StorageConfig{
			Backend: "file",
		},
		Reconcile: ReconcileConfig{
			MaterialityThreshold: 10,
		},
		Snapshot: SnapshotConfig{
			MaxHistory: 365,
		},
		Recurring: RecurringConfig{
			DescriptionPrefix: "[Recurring] ",
			Note:              "Auto-Executed",
			Source:            "RECURRING_AUTO",
		},
		Notify: NotifyConfig{
			DismissAfter: "5s",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "fintrack",
			AuthorEmail: "fintrack@localhost",
		},
		AI: AIConfig{
			Model: "gemini-2.5-flash",
		},
	}
}
