package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/peteski22/offersync/internal/config"
	"github.com/peteski22/offersync/internal/storage"
	"github.com/peteski22/offersync/internal/sync"
)

// syncOptions holds the flags of the sync command.
type syncOptions struct {
	configPath string
	dryRun     bool
	force      bool
}

func syncCmd() *cobra.Command {
	var opts syncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch, reconcile and save the current offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.offersync/config.yaml)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Reconcile without saving the snapshot")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Run even if the last sync is within min_interval")

	return cmd
}

// runSync runs one sync cycle against the local session file and database.
func runSync(ctx context.Context, out io.Writer, opts syncOptions) error {
	cfg, err := loadLocalConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sessionStore, err := openSessionStore()
	if err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	identity, err := sessionStore.AccountIdentity(ctx)
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	key := sync.StorageKey(cfg.Namespace, identity)

	if !opts.force {
		last, err := recentlySynced(ctx, db, key, cfg.Sync.MinInterval, time.Now())
		if err != nil {
			return err
		}
		if last != nil {
			printState(out, last)
			printf(out, "Within min_interval of %s; use --force to run anyway\n", cfg.Sync.MinInterval)
			return nil
		}
	}

	client, err := newCasinoClient(cfg.Casino)
	if err != nil {
		return err
	}

	svc, err := newService(serviceDeps{
		client:        client,
		dryRun:        opts.dryRun,
		logger:        slog.Default(),
		namespace:     cfg.Namespace,
		snapshotStore: db,
		stateStore:    db,
		tuning:        cfg.Sync,
	})
	if err != nil {
		return fmt.Errorf("creating sync service: %w", err)
	}

	result, err := svc.Run(ctx, sessionStore)
	if err != nil {
		return fmt.Errorf("running sync: %w", err)
	}

	printSummary(out, key, result)

	return nil
}

// loadLocalConfig loads the config file at path, or the default file when path is empty.
func loadLocalConfig(path string) (*config.LocalConfig, error) {
	if path == "" {
		return config.LoadLocal()
	}
	return config.LoadLocalFile(path)
}

// openDatabase opens the local SQLite database, creating its directory if needed.
func openDatabase() (*storage.SQLiteStore, error) {
	dbPath, err := config.DatabaseFilePath()
	if err != nil {
		return nil, fmt.Errorf("getting database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.OpenSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

// openSessionStore opens the local session file.
func openSessionStore() (*storage.FileSessionStore, error) {
	sessionPath, err := config.SessionFilePath()
	if err != nil {
		return nil, fmt.Errorf("getting session path: %w", err)
	}

	store, err := storage.NewFileSessionStore(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}

	return store, nil
}
