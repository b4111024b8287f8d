// Package sync reconciles a user's casino offers: it fetches the batch, refetches incomplete
// offers concurrently, merges the results and hands the snapshot to persistence.
package sync

import (
	"context"
	"time"

	"github.com/peteski22/offersync/internal/casino"
	"github.com/peteski22/offersync/internal/offers"
)

// Credentials supplies the session used for a sync run.
type Credentials interface {
	// AccountIdentity returns who the session belongs to.
	AccountIdentity(ctx context.Context) (Identity, error)

	// AuthToken returns the bearer token and its expiry. A zero expiry means unknown.
	AuthToken(ctx context.Context) (string, time.Time, error)

	// Invalidate discards the session so the user is forced to log in again.
	Invalidate(ctx context.Context) error
}

// DiffSink receives, for every successful refetch, the sailings present on only one side.
type DiffSink interface {
	// RecordDiff is called once per refetched offer.
	RecordDiff(ctx context.Context, offerCode string, onlyOriginal []offers.Sailing, onlyRefetched []offers.Sailing)
}

// Identity identifies the account a snapshot belongs to.
type Identity struct {
	// AccountID is sent in the account-id header.
	AccountID string `json:"accountId"`

	// DisplayKey is a human-friendly identifier (usually the login email) used for storage keys.
	DisplayKey string `json:"displayKey,omitempty"`

	// LoyaltyID is the casino loyalty programme identifier.
	LoyaltyID string `json:"loyaltyId"`
}

// OfferDiagnostics counts what a refetch changed for one offer code.
type OfferDiagnostics struct {
	// Added is the number of sailings appended by the refetch merge.
	Added int `json:"added"`

	// Final is the number of sailings left after the second filter pass.
	Final int `json:"final"`

	// Replaced is the number of sailings overwritten by fresher refetched data.
	Replaced int `json:"replaced"`
}

// OffersClient defines the casino API operations required by the sync service.
type OffersClient interface {
	// Offer fetches a single offer by code.
	Offer(ctx context.Context, req casino.OffersRequest) (*offers.Offer, error)

	// Offers fetches every offer for the account.
	Offers(ctx context.Context, req casino.OffersRequest) ([]offers.Offer, error)
}

// Result contains the outcome of a sync run. It is also the persisted snapshot.
type Result struct {
	// Diagnostics holds per-offer-code merge counts.
	Diagnostics map[string]OfferDiagnostics `json:"diagnostics"`

	// DryRun indicates the snapshot was not persisted.
	DryRun bool `json:"dryRun,omitempty"`

	// Offers is the final, filtered and normalized offer list.
	Offers []offers.Offer `json:"offers"`

	// RefetchFailures lists the offer codes whose refetch failed; their original sailings were kept.
	RefetchFailures []string `json:"refetchFailures,omitempty"`

	// RunID correlates the log lines of one run.
	RunID string `json:"runId"`

	// SavedAt is when the result was assembled.
	SavedAt time.Time `json:"savedAt"`
}

// SnapshotStore persists results as full snapshots. The last write for a key wins.
type SnapshotStore interface {
	// Get returns the snapshot stored under key, or nil when there is none.
	Get(ctx context.Context, key string) (*Result, error)

	// Put replaces the snapshot stored under key.
	Put(ctx context.Context, key string, result *Result) error
}

// StateStore records the last successful run for each snapshot key.
type StateStore interface {
	// LastSync returns the state recorded for key, or nil when no run has succeeded yet.
	LastSync(ctx context.Context, key string) (*SyncState, error)

	// RecordSync replaces the state stored under state.SnapshotKey.
	RecordSync(ctx context.Context, state SyncState) error
}

// SyncState summarises the last successful run for one snapshot key.
type SyncState struct {
	// Offers is the number of offers persisted.
	Offers int `json:"offers"`

	// RefetchFailures is the number of offers whose refetch failed.
	RefetchFailures int `json:"refetchFailures"`

	// RunID identifies the run that produced the snapshot.
	RunID string `json:"runId"`

	// SavedAt is the snapshot timestamp.
	SavedAt time.Time `json:"savedAt"`

	// SnapshotKey is the key the snapshot was stored under.
	SnapshotKey string `json:"snapshotKey"`
}

// NewSyncState summarises result as stored under key.
func NewSyncState(key string, result *Result) SyncState {
	return SyncState{
		Offers:          len(result.Offers),
		RefetchFailures: len(result.RefetchFailures),
		RunID:           result.RunID,
		SavedAt:         result.SavedAt,
		SnapshotKey:     key,
	}
}
