package sync

import (
	"context"
	"log/slog"
)

// dryRunStore wraps a SnapshotStore and logs writes instead of executing them.
type dryRunStore struct {
	logger *slog.Logger
	store  SnapshotStore
}

// newDryRunStore creates a new dryRunStore that wraps the given SnapshotStore.
func newDryRunStore(store SnapshotStore, logger *slog.Logger) *dryRunStore {
	return &dryRunStore{
		logger: logger,
		store:  store,
	}
}

// Get delegates to the real store.
func (d *dryRunStore) Get(ctx context.Context, key string) (*Result, error) {
	return d.store.Get(ctx, key)
}

// Put logs what would be persisted and returns nil.
func (d *dryRunStore) Put(_ context.Context, key string, result *Result) error {
	d.logger.Info("[DRY-RUN] would persist snapshot",
		"key", key,
		"run_id", result.RunID,
		"offers", len(result.Offers),
		"refetch_failures", len(result.RefetchFailures))

	return nil
}

// dryRunStateStore reads the real state but never records a sync.
type dryRunStateStore struct {
	logger *slog.Logger
	store  StateStore
}

// LastSync delegates to the real store.
func (d *dryRunStateStore) LastSync(ctx context.Context, key string) (*SyncState, error) {
	return d.store.LastSync(ctx, key)
}

// RecordSync logs what would be recorded and returns nil.
func (d *dryRunStateStore) RecordSync(_ context.Context, state SyncState) error {
	d.logger.Info("[DRY-RUN] would record sync state",
		"key", state.SnapshotKey,
		"run_id", state.RunID,
		"saved_at", state.SavedAt)

	return nil
}
