package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configDirName    = ".offersync"
	configFileName   = "config.yaml"
	databaseFileName = "offersync.db"
	sessionFileName  = "session.json"
)

// LocalConfig holds configuration loaded from a local file.
type LocalConfig struct {
	// Casino contains casino offers API settings.
	Casino Casino `yaml:"casino"`

	// Namespace prefixes snapshot keys in the local database.
	Namespace string `yaml:"namespace"`

	// Sync contains reconciliation tuning.
	Sync Sync `yaml:"sync"`
}

// ConfigDir returns the offersync configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigFilePath returns the path to the local config file.
func ConfigFilePath() (string, error) {
	return inConfigDir(configFileName)
}

// DatabaseFilePath returns the path to the local SQLite snapshot database.
func DatabaseFilePath() (string, error) {
	return inConfigDir(databaseFileName)
}

// SessionFilePath returns the path to the local session file.
func SessionFilePath() (string, error) {
	return inConfigDir(sessionFileName)
}

// LoadLocal loads configuration from the local config file.
func LoadLocal() (*LocalConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}
	return LoadLocalFile(configPath)
}

// LoadLocalFile loads configuration from the given file, applying defaults for unset values.
func LoadLocalFile(configPath string) (*LocalConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s (run 'offersync init' to create)", configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &LocalConfig{
		Casino: Casino{
			Brand:   defaultBrand,
			Timeout: defaultTimeout,
		},
		Namespace: defaultNamespace,
		Sync:      DefaultSync(),
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Casino.Brand = strings.ToUpper(strings.TrimSpace(cfg.Casino.Brand))
	cfg.Casino.BaseURL = strings.TrimSpace(cfg.Casino.BaseURL)
	if cfg.Sync.TierMarker == "" {
		cfg.Sync.TierMarker = defaultTierMarker
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LocalConfigExists checks if a local config file exists.
func LocalConfigExists() bool {
	configPath, err := ConfigFilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(configPath)
	return err == nil
}

// validate checks that the file values are usable.
func (c *LocalConfig) validate() error {
	var errs []error

	if !validBrand(c.Casino.Brand) {
		errs = append(errs, fmt.Errorf("casino.brand must be R or C, got %q", c.Casino.Brand))
	}
	if c.Casino.Timeout <= 0 {
		errs = append(errs, positiveError("casino.timeout"))
	}
	if c.Namespace == "" {
		errs = append(errs, errors.New("namespace cannot be empty"))
	}

	errs = append(errs, c.Sync.validate(syncFieldNames{
		maxAttempts:            "sync.max_attempts",
		maxConcurrentRefetches: "sync.max_concurrent_refetches",
		maxNights:              "sync.max_nights",
		minInterval:            "sync.min_interval",
		retryDelay:             "sync.retry_delay",
	}))

	return errors.Join(errs...)
}

func inConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
