package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/peteski22/offersync/internal/config"
)

const configTemplate = `# offersync configuration

casino:
  # Cruise line brand: R (Royal Caribbean) or C (Celebrity).
  brand: "R"
  # Optional: override the brand's site, e.g. for a proxy.
  base_url: ""
  # Per-request HTTP timeout.
  timeout: 30s

# Prefix for snapshot keys in the local database.
namespace: "offers-"

sync:
  # Initial fetch attempts before giving up.
  max_attempts: 3
  # Fixed wait between attempts.
  retry_delay: 2s
  # Offers whose code contains tier_marker keep only sailings up to max_nights.
  tier_marker: "TIER"
  max_nights: 7
  # Parallel per-offer refetches (0 means unbounded).
  max_concurrent_refetches: 0
  # Skip runs closer together than this (0s disables the check).
  min_interval: 0s
`

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout())
		},
	}
}

// runInit creates a sample configuration file.
func runInit(out io.Writer) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	configPath, err := config.ConfigFilePath()
	if err != nil {
		return fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	sessionPath, err := config.SessionFilePath()
	if err != nil {
		return fmt.Errorf("getting session path: %w", err)
	}

	printf(out, "Created config file: %s\n\n", configPath)
	printf(out, "Next steps:\n")
	printf(out, "  1. Edit the config file if you sail with Celebrity or use a proxy\n")
	printf(out, "  2. Run 'offersync session --token=... --account-id=... --loyalty-id=...' to save your login\n")
	printf(out, "  3. Run 'offersync sync --dry-run' to test\n\n")
	printf(out, "Session will be stored at: %s\n", sessionPath)

	return nil
}
