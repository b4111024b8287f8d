package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/peteski22/offersync/internal/casino"
	"github.com/peteski22/offersync/internal/config"
	"github.com/peteski22/offersync/internal/offers"
	"github.com/peteski22/offersync/internal/sync"
)

// serviceDeps holds everything needed to build a sync service.
type serviceDeps struct {
	// client fetches offers.
	client sync.OffersClient

	// dryRun skips persistence.
	dryRun bool

	// logger receives service logs.
	logger *slog.Logger

	// namespace prefixes snapshot keys.
	namespace string

	// snapshotStore persists results.
	snapshotStore sync.SnapshotStore

	// stateStore records the last successful run per snapshot key.
	stateStore sync.StateStore

	// tuning holds retry and filter settings.
	tuning config.Sync
}

// newCasinoClient builds the offers API client from configuration.
func newCasinoClient(cfg config.Casino) (*casino.Client, error) {
	opts := []casino.Option{
		casino.WithBrand(casino.Brand(cfg.Brand)),
		casino.WithTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, casino.WithBaseURL(cfg.BaseURL))
	}

	client, err := casino.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating casino client: %w", err)
	}

	return client, nil
}

// newService builds the sync service from its dependencies.
func newService(deps serviceDeps) (*sync.Service, error) {
	return sync.New(sync.Config{
		Client:                 deps.client,
		DryRun:                 deps.dryRun,
		Logger:                 deps.logger,
		MaxAttempts:            deps.tuning.MaxAttempts,
		MaxConcurrentRefetches: deps.tuning.MaxConcurrentRefetches,
		Namespace:              deps.namespace,
		NightLimit: offers.NightLimit{
			CodeMarker: deps.tuning.TierMarker,
			MaxNights:  deps.tuning.MaxNights,
		},
		RetryDelay:    deps.tuning.RetryDelay,
		SnapshotStore: deps.snapshotStore,
		StateStore:    deps.stateStore,
	})
}

// recentlySynced returns the state recorded for key when that run finished within minInterval of
// now, and nil otherwise. A zero minInterval disables the check.
func recentlySynced(
	ctx context.Context,
	state sync.StateStore,
	key string,
	minInterval time.Duration,
	now time.Time,
) (*sync.SyncState, error) {
	if minInterval <= 0 {
		return nil, nil
	}

	last, err := state.LastSync(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("getting last sync of %s: %w", key, err)
	}
	if last == nil || !now.Before(last.SavedAt.Add(minInterval)) {
		return nil, nil
	}

	return last, nil
}

// printState writes a human-readable line for the last recorded run.
func printState(w io.Writer, state *sync.SyncState) {
	printf(w, "Last sync of %s: run %s at %s, %d offers, %d refetch failures\n",
		state.SnapshotKey, state.RunID, state.SavedAt.Format(time.RFC3339), state.Offers, state.RefetchFailures)
}

// printSummary writes a human-readable summary of a sync result.
func printSummary(w io.Writer, key string, result *sync.Result) {
	if result.DryRun {
		printf(w, "[DRY-RUN] ")
	}
	printf(w, "Run %s saved %d offers under %s at %s\n",
		result.RunID, len(result.Offers), key, result.SavedAt.Format(time.RFC3339))

	for _, code := range slices.Sorted(maps.Keys(result.Diagnostics)) {
		d := result.Diagnostics[code]
		printf(w, "  %-12s added=%d replaced=%d final=%d\n", code, d.Added, d.Replaced, d.Final)
	}

	if len(result.RefetchFailures) > 0 {
		printf(w, "Refetch failed for: %v\n", result.RefetchFailures)
	}
}
