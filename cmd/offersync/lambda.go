package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/peteski22/offersync/internal/config"
	"github.com/peteski22/offersync/internal/storage"
	"github.com/peteski22/offersync/internal/sync"
)

// Response is returned by the Lambda handler.
type Response struct {
	// LastSync is the previous successful run, set when this run was skipped.
	LastSync *sync.SyncState `json:"lastSync,omitempty"`

	// Offers is the number of offers persisted.
	Offers int `json:"offers"`

	// RefetchFailures lists offer codes whose refetch failed.
	RefetchFailures []string `json:"refetchFailures,omitempty"`

	// RunID identifies the run in logs and in the stored snapshot.
	RunID string `json:"runId,omitempty"`

	// Skipped is true when the last sync was too recent to run again.
	Skipped bool `json:"skipped,omitempty"`

	// SnapshotKey is where the snapshot and its sync state are stored.
	SnapshotKey string `json:"snapshotKey"`
}

// snapshotBackend is a snapshot store that may hold a connection to release.
type snapshotBackend struct {
	// close releases the backend's resources.
	close func() error

	// store is the snapshot store.
	store sync.SnapshotStore
}

func handler(ctx context.Context) (*Response, error) {
	logger := slog.Default()
	logger.InfoContext(ctx, "starting sync")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	sessionStore, err := storage.NewSecretsManagerSessionStore(
		secretsmanager.NewFromConfig(awsCfg),
		cfg.Session.SecretARN,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}

	stateStore, err := newStateStore(cfg.SSM, ssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, err
	}

	identity, err := sessionStore.AccountIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading session identity: %w", err)
	}
	key := sync.StorageKey(cfg.Snapshot.Namespace, identity)

	last, err := recentlySynced(ctx, stateStore, key, cfg.Sync.MinInterval, time.Now())
	if err != nil {
		return nil, err
	}
	if last != nil {
		logger.InfoContext(ctx, "skipping sync, last run too recent",
			"key", key,
			"last_run_id", last.RunID,
			"last_saved_at", last.SavedAt,
			"min_interval", cfg.Sync.MinInterval,
		)
		return &Response{LastSync: last, Skipped: true, SnapshotKey: key}, nil
	}

	backend, err := newSnapshotBackend(ctx, cfg.Snapshot, func() storage.DynamoDBAPI {
		return dynamodb.NewFromConfig(awsCfg)
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = backend.close() }()

	client, err := newCasinoClient(cfg.Casino)
	if err != nil {
		return nil, err
	}

	svc, err := newService(serviceDeps{
		client:        client,
		logger:        logger,
		namespace:     cfg.Snapshot.Namespace,
		snapshotStore: backend.store,
		stateStore:    stateStore,
		tuning:        cfg.Sync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating sync service: %w", err)
	}

	result, err := svc.Run(ctx, sessionStore)
	if err != nil {
		return nil, fmt.Errorf("running sync: %w", err)
	}

	logger.InfoContext(ctx, "sync complete",
		"key", key,
		"run_id", result.RunID,
		"offers", len(result.Offers),
		"refetch_failures", len(result.RefetchFailures),
	)

	return &Response{
		Offers:          len(result.Offers),
		RefetchFailures: result.RefetchFailures,
		RunID:           result.RunID,
		SnapshotKey:     key,
	}, nil
}

// newSnapshotBackend opens the configured snapshot store. The DynamoDB client is built lazily so
// the redis backend never touches DynamoDB.
func newSnapshotBackend(
	ctx context.Context,
	cfg config.Snapshot,
	dynamoClient func() storage.DynamoDBAPI,
) (*snapshotBackend, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		store, err := storage.OpenRedisSnapshotStore(ctx, cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("opening redis snapshot store: %w", err)
		}
		return &snapshotBackend{close: store.Close, store: store}, nil
	default:
		store, err := storage.NewDynamoDBSnapshotStore(dynamoClient(), cfg.DynamoDBTableName)
		if err != nil {
			return nil, fmt.Errorf("creating dynamodb snapshot store: %w", err)
		}
		return &snapshotBackend{close: func() error { return nil }, store: store}, nil
	}
}

// newStateStore returns the SSM state store, or a no-op store when no parameter prefix is configured.
func newStateStore(cfg config.SSM, client storage.SSMAPI) (sync.StateStore, error) {
	if cfg.ParameterPrefix == "" {
		return storage.NewNoopStateStore(), nil
	}

	store, err := storage.NewSSMStateStore(client, cfg.ParameterPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating state store: %w", err)
	}

	return store, nil
}
