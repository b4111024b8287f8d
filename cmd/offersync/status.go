package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the last successful sync for the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.offersync/config.yaml)")
	cmd.Flags().StringVar(&opts.key, "key", "", "Snapshot key (default: derived from the saved session)")

	return cmd
}

// runStatus prints the sync state recorded for the session's snapshot key, or for opts.key.
func runStatus(ctx context.Context, out io.Writer, opts showOptions) error {
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

	state, err := db.LastSync(ctx, key)
	if err != nil {
		return fmt.Errorf("reading sync state: %w", err)
	}
	if state == nil {
		printf(out, "No sync recorded for %s\n", key)
		return nil
	}

	printState(out, state)
	return nil
}
