package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/peteski22/offersync/internal/sync"
)

//go:embed schema.sql
var sqliteSchema string

// SQLiteStore keeps snapshots and sync state in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at dsn and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the snapshot stored under key, or nil if there is none.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*sync.Result, error) {
	if key == "" {
		return nil, errors.New("snapshot key is required")
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM snapshots WHERE snapshot_key = ?", key,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	return decodeResult([]byte(payload))
}

// Put replaces the snapshot stored under key.
func (s *SQLiteStore) Put(ctx context.Context, key string, result *sync.Result) error {
	if key == "" {
		return errors.New("snapshot key is required")
	}

	data, err := encodeResult(result)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO snapshots (snapshot_key, run_id, saved_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(snapshot_key) DO UPDATE SET
			run_id = excluded.run_id,
			saved_at = excluded.saved_at,
			payload = excluded.payload`,
		key, result.RunID, result.SavedAt.UTC().Format(time.RFC3339), string(data),
	)
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}

	return nil
}

// LastSync returns the state recorded for key, or nil if no run has succeeded yet.
func (s *SQLiteStore) LastSync(ctx context.Context, key string) (*sync.SyncState, error) {
	if key == "" {
		return nil, errors.New("snapshot key is required")
	}

	state := sync.SyncState{SnapshotKey: key}
	var savedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT run_id, saved_at, offers, refetch_failures FROM sync_runs WHERE snapshot_key = ?", key,
	).Scan(&state.RunID, &savedAt, &state.Offers, &state.RefetchFailures)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying sync state: %w", err)
	}

	if state.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return nil, fmt.Errorf("parsing sync time: %w", err)
	}

	return &state, nil
}

// RecordSync replaces the state stored for state.SnapshotKey.
func (s *SQLiteStore) RecordSync(ctx context.Context, state sync.SyncState) error {
	if state.SnapshotKey == "" {
		return errors.New("snapshot key is required")
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO sync_runs (snapshot_key, run_id, saved_at, offers, refetch_failures)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(snapshot_key) DO UPDATE SET
			run_id = excluded.run_id,
			saved_at = excluded.saved_at,
			offers = excluded.offers,
			refetch_failures = excluded.refetch_failures`,
		state.SnapshotKey, state.RunID, state.SavedAt.UTC().Format(time.RFC3339Nano),
		state.Offers, state.RefetchFailures,
	)
	if err != nil {
		return fmt.Errorf("updating sync state: %w", err)
	}
	return nil
}
