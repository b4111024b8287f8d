package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/peteski22/offersync/internal/config"
	"github.com/peteski22/offersync/internal/sync"
)

// showOptions holds the flags of the show command.
type showOptions struct {
	configPath string
	key        string
}

func showCmd() *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.offersync/config.yaml)")
	cmd.Flags().StringVar(&opts.key, "key", "", "Snapshot key (default: derived from the saved session)")

	return cmd
}

// runShow prints the snapshot stored for the session's identity, or for opts.key.
func runShow(ctx context.Context, out io.Writer, opts showOptions) error {
	key := opts.key
	if key == "" {
		var err error
		if key, err = sessionKey(ctx, opts.configPath); err != nil {
			return err
		}
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	result, err := db.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if result == nil {
		return fmt.Errorf("no snapshot stored under %s (run 'offersync sync' first)", key)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	return nil
}

// sessionKey derives the snapshot key from the configured namespace and the saved session.
func sessionKey(ctx context.Context, configPath string) (string, error) {
	namespace := sync.DefaultNamespace
	if configPath != "" || config.LocalConfigExists() {
		cfg, err := loadLocalConfig(configPath)
		if err != nil {
			return "", fmt.Errorf("loading config: %w", err)
		}
		namespace = cfg.Namespace
	}

	sessionStore, err := openSessionStore()
	if err != nil {
		return "", err
	}

	identity, err := sessionStore.AccountIdentity(ctx)
	if err != nil {
		return "", fmt.Errorf("reading session: %w", err)
	}
	if identity.AccountID == "" && identity.DisplayKey == "" {
		return "", fmt.Errorf("no session saved (run 'offersync session' first)")
	}

	return sync.StorageKey(namespace, identity), nil
}
