package storage

import (
	"context"

	"github.com/peteski22/offersync/internal/sync"
)

// NoopStateStore never records a sync. It is used when no SSM parameter prefix is configured, which
// disables the minimum sync interval check.
type NoopStateStore struct{}

// NewNoopStateStore creates a new NoopStateStore.
func NewNoopStateStore() *NoopStateStore {
	return &NoopStateStore{}
}

// LastSync always reports that no run has been recorded.
func (s *NoopStateStore) LastSync(_ context.Context, _ string) (*sync.SyncState, error) {
	return nil, nil
}

// RecordSync does nothing.
func (s *NoopStateStore) RecordSync(_ context.Context, _ sync.SyncState) error {
	return nil
}
