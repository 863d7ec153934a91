// Package config provides configuration loading and validation for hosts of
// the staged edit cache.
//
// A single global Config instance is maintained in memory, protected by a
// mutex, and always accessed BY VALUE so callers cannot mutate shared state.
// State (pending edits, flush history) never lives here, only configuration.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"editcache/pkg/logx"
)

// ConfigFilename is the default config file name in a workspace root.
const ConfigFilename = "editcache.yaml"

// Defaults applied when fields are omitted from the config file.
const (
	DefaultReadLimitBytes   = 1048576 // 1MB cap on read_file output
	DefaultPreviewMaxTokens = 8192    // Token budget for preview_changes output
	DefaultJournalFilename  = "editcache-journal.db"
)

// JournalConfig controls the SQLite flush journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// PreviewConfig controls preview_changes output sizing.
type PreviewConfig struct {
	MaxTokens int `yaml:"max_tokens"`
}

// Config is the host configuration for one workspace.
type Config struct {
	WorkspaceRoot  string        `yaml:"workspace_root"`
	ReadLimitBytes int64         `yaml:"read_limit_bytes"`
	Journal        JournalConfig `yaml:"journal"`
	Preview        PreviewConfig `yaml:"preview"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`
}

//nolint:gochecknoglobals // Intentional singleton pattern for config management
var (
	config *Config
	logger *logx.Logger
	mu     sync.RWMutex
)

func getLogger() *logx.Logger {
	if logger == nil {
		logger = logx.NewLogger("config")
	}
	return logger
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		WorkspaceRoot:  "/workspace",
		ReadLimitBytes: DefaultReadLimitBytes,
		Preview:        PreviewConfig{MaxTokens: DefaultPreviewMaxTokens},
		Journal:        JournalConfig{Enabled: false, Path: DefaultJournalFilename},
	}
}

// LoadConfig reads and validates the YAML config at path, installing it as
// the global instance. A missing file installs the defaults.
func LoadConfig(path string) error {
	mu.Lock()
	defer mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			config = &cfg
			getLogger().Info("No config file at %s, using defaults", path)
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return fmt.Errorf("invalid config in %s: %w", path, err)
	}

	config = &cfg
	getLogger().Info("Config loaded from %s (workspace: %s)", path, cfg.WorkspaceRoot)
	return nil
}

// GetConfig returns the current configuration by value. LoadConfig must have
// been called first.
func GetConfig() (Config, error) {
	mu.RLock()
	defer mu.RUnlock()

	if config == nil {
		return Config{}, fmt.Errorf("config not loaded - call LoadConfig first")
	}
	return *config, nil
}

// Reset clears the global config (useful for testing).
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	config = nil
}

func validate(cfg *Config) error {
	if cfg.WorkspaceRoot == "" {
		return fmt.Errorf("workspace_root must not be empty")
	}
	if cfg.ReadLimitBytes <= 0 {
		return fmt.Errorf("read_limit_bytes must be positive, got %d", cfg.ReadLimitBytes)
	}
	if cfg.Preview.MaxTokens <= 0 {
		return fmt.Errorf("preview.max_tokens must be positive, got %d", cfg.Preview.MaxTokens)
	}
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return fmt.Errorf("journal.path must be set when the journal is enabled")
	}
	return nil
}
