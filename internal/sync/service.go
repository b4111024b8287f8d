package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/peteski22/offersync/internal/casino"
	"github.com/peteski22/offersync/internal/offers"
)

const (
	// defaultMaxAttempts is the total number of initial fetch attempts, including the first.
	defaultMaxAttempts = 3

	// defaultRetryDelay is the fixed wait between initial fetch attempts.
	defaultRetryDelay = 2 * time.Second
)

// Config holds the required configuration for creating a Service.
type Config struct {
	// Client is the casino offers API client.
	Client OffersClient

	// DiffSink receives refetch differences. Defaults to debug logging.
	DiffSink DiffSink

	// DryRun indicates whether to skip persistence writes.
	DryRun bool

	// Logger is the structured logger for the service.
	Logger *slog.Logger

	// MaxAttempts caps the initial fetch attempts for 503 and transient failures. Default is 3.
	MaxAttempts int

	// MaxConcurrentRefetches bounds the refetch fan-out. Zero means unbounded.
	MaxConcurrentRefetches int

	// Namespace prefixes snapshot keys. Default is "offers-".
	Namespace string

	// NightLimit configures the night-count filter for marked offers.
	NightLimit offers.NightLimit

	// Normalize canonicalizes each offer before it is persisted. Default is offers.Normalize.
	Normalize func(offers.Offer) offers.Offer

	// Now returns the current time. Default is time.Now.
	Now func() time.Time

	// RetryDelay is the fixed wait between initial fetch attempts. Default is 2s.
	RetryDelay time.Duration

	// SnapshotStore persists the final result.
	SnapshotStore SnapshotStore

	// StateStore optionally records the last successful run per snapshot key.
	StateStore StateStore
}

// validate checks that all required Config fields are set.
func (c *Config) validate() error {
	var errs []error
	if c.Client == nil {
		errs = append(errs, errors.New("offers client is required"))
	}
	if c.SnapshotStore == nil {
		errs = append(errs, errors.New("snapshot store is required"))
	}
	if c.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("max attempts cannot be negative, got %d", c.MaxAttempts))
	}
	if c.MaxConcurrentRefetches < 0 {
		errs = append(errs, fmt.Errorf("max concurrent refetches cannot be negative, got %d", c.MaxConcurrentRefetches))
	}
	if c.NightLimit.MaxNights < 0 {
		errs = append(errs, fmt.Errorf("max nights cannot be negative, got %d", c.NightLimit.MaxNights))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("retry delay cannot be negative, got %v", c.RetryDelay))
	}
	return errors.Join(errs...)
}

// Service orchestrates a sync of casino offers into the snapshot store.
type Service struct {
	client                 OffersClient
	diffSink               DiffSink
	dryRun                 bool
	logger                 *slog.Logger
	maxAttempts            int
	maxConcurrentRefetches int
	namespace              string
	nightLimit             offers.NightLimit
	normalize              func(offers.Offer) offers.Offer
	now                    func() time.Time
	retryDelay             time.Duration
	snapshotStore          SnapshotStore
	stateStore             StateStore
}

// refetchOutcome is the result of refetching one offer code. A nil offer means the refetch failed.
type refetchOutcome struct {
	code  string
	offer *offers.Offer
}

// New creates a new sync orchestration service.
func New(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := cfg.SnapshotStore
	stateStore := cfg.StateStore
	if cfg.DryRun {
		store = newDryRunStore(store, logger)
		if stateStore != nil {
			stateStore = &dryRunStateStore{logger: logger, store: stateStore}
		}
	}

	sink := cfg.DiffSink
	if sink == nil {
		sink = &logDiffSink{logger: logger}
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultMaxAttempts
	}

	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = defaultRetryDelay
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	nightLimit := cfg.NightLimit
	if nightLimit == (offers.NightLimit{}) {
		nightLimit = offers.DefaultNightLimit()
	}

	normalize := cfg.Normalize
	if normalize == nil {
		normalize = offers.Normalize
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		client:                 cfg.Client,
		diffSink:               sink,
		dryRun:                 cfg.DryRun,
		logger:                 logger,
		maxAttempts:            maxAttempts,
		maxConcurrentRefetches: cfg.MaxConcurrentRefetches,
		namespace:              namespace,
		nightLimit:             nightLimit,
		normalize:              normalize,
		now:                    now,
		retryDelay:             retryDelay,
		snapshotStore:          store,
		stateStore:             stateStore,
	}, nil
}

// Run executes a full sync cycle for the session in creds.
//
// It fails with casino.ErrAuthExpired when the session is missing, expired or rejected (the
// session is invalidated and nothing is retried), with casino.ErrUnavailable or a
// *casino.TransientError once the retry budget is spent, and with *casino.ProtocolError
// immediately on any other status. Nothing is persisted when the initial fetch fails.
func (s *Service) Run(ctx context.Context, creds Credentials) (*Result, error) {
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)

	req, identity, err := s.prepare(ctx, creds)
	if err != nil {
		if errors.Is(err, casino.ErrAuthExpired) {
			s.invalidate(ctx, logger, creds)
		}
		return nil, err
	}

	logger.Info("starting sync", "account_id", identity.AccountID, "dry_run", s.dryRun)

	batch, err := s.fetchAll(ctx, logger, req)
	if err != nil {
		if errors.Is(err, casino.ErrAuthExpired) {
			s.invalidate(ctx, logger, creds)
		}
		return nil, fmt.Errorf("fetching offers: %w", err)
	}

	logger.Info("fetched offers", "count", len(batch))

	for i := range batch {
		batch[i] = offers.ApplyRules(batch[i], s.nightLimit)
	}

	codes := offers.PlanRefetch(batch)
	diagnostics := make(map[string]OfferDiagnostics, len(batch))
	var failures []string

	if len(codes) > 0 {
		logger.Info("refetching incomplete offers", "count", len(codes))

		outcomes := s.refetch(ctx, logger, req, codes)
		for _, outcome := range outcomes {
			if outcome.offer == nil {
				failures = append(failures, outcome.code)
				continue
			}
			s.mergeOutcome(ctx, batch, outcome, diagnostics)
		}
	}

	final := make([]offers.Offer, len(batch))
	for i := range batch {
		filtered := offers.ApplyRules(batch[i], s.nightLimit)
		final[i] = s.normalize(filtered)

		code := diagnosticsCode(filtered.Code)
		d := diagnostics[code]
		d.Final += len(filtered.Sailings)
		diagnostics[code] = d
	}

	result := &Result{
		Diagnostics:     diagnostics,
		DryRun:          s.dryRun,
		Offers:          final,
		RefetchFailures: failures,
		RunID:           runID,
		SavedAt:         s.now().UTC(),
	}

	key := StorageKey(s.namespace, identity)
	if err := s.snapshotStore.Put(ctx, key, result); err != nil {
		return result, fmt.Errorf("persisting snapshot %s: %w", key, err)
	}

	if s.stateStore != nil {
		if err := s.stateStore.RecordSync(ctx, NewSyncState(key, result)); err != nil {
			return result, fmt.Errorf("recording sync state %s: %w", key, err)
		}
	}

	logger.Info("sync complete",
		"key", key,
		"offers", len(result.Offers),
		"refetched", len(codes),
		"refetch_failures", len(failures))

	return result, nil
}

// prepare checks the session and builds the base request. No network call is made.
func (s *Service) prepare(ctx context.Context, creds Credentials) (casino.OffersRequest, Identity, error) {
	if creds == nil {
		return casino.OffersRequest{}, Identity{}, errors.New("credentials are required")
	}

	token, expiresAt, err := creds.AuthToken(ctx)
	if err != nil {
		return casino.OffersRequest{}, Identity{}, fmt.Errorf("reading auth token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return casino.OffersRequest{}, Identity{}, fmt.Errorf("%w: no auth token", casino.ErrAuthExpired)
	}
	if !expiresAt.IsZero() && !s.now().Before(expiresAt) {
		return casino.OffersRequest{}, Identity{}, fmt.Errorf("%w: token expired at %s",
			casino.ErrAuthExpired, expiresAt.Format(time.RFC3339))
	}

	identity, err := creds.AccountIdentity(ctx)
	if err != nil {
		return casino.OffersRequest{}, Identity{}, fmt.Errorf("reading account identity: %w", err)
	}

	return casino.OffersRequest{
		AccountID: identity.AccountID,
		LoyaltyID: identity.LoyaltyID,
		Token:     token,
	}, identity, nil
}

// fetchAll performs the initial batch fetch, retrying 503 and transient failures with a fixed
// delay until the attempt budget is spent.
func (s *Service) fetchAll(ctx context.Context, logger *slog.Logger, req casino.OffersRequest) ([]offers.Offer, error) {
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		batch, err := s.client.Offers(ctx, req)
		if err == nil {
			return batch, nil
		}
		if !casino.IsRetryable(err) {
			return nil, err
		}

		lastErr = err
		logger.Warn("offers fetch failed",
			"attempt", attempt,
			"max_attempts", s.maxAttempts,
			"error", err)

		if attempt == s.maxAttempts {
			break
		}
		if err := sleep(ctx, s.retryDelay); err != nil {
			return nil, fmt.Errorf("waiting to retry: %w", err)
		}
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", s.maxAttempts, lastErr)
}

// refetch fetches each code concurrently and waits for every request to finish. Failures are
// logged and returned as outcomes with a nil offer.
func (s *Service) refetch(
	ctx context.Context,
	logger *slog.Logger,
	base casino.OffersRequest,
	codes []string,
) []refetchOutcome {
	outcomes := make([]refetchOutcome, len(codes))

	var g errgroup.Group
	if s.maxConcurrentRefetches > 0 {
		g.SetLimit(s.maxConcurrentRefetches)
	}

	for i, code := range codes {
		g.Go(func() error {
			outcomes[i] = refetchOutcome{code: code}

			req := base
			req.OfferCode = code

			o, err := s.client.Offer(ctx, req)
			if err != nil {
				logger.Warn("refetch failed, keeping original sailings", "offer_code", code, "error", err)
				return nil
			}
			if o == nil || o.Sailings == nil {
				logger.Warn("refetch returned no sailings, keeping original sailings", "offer_code", code)
				return nil
			}

			outcomes[i].offer = o
			return nil
		})
	}

	// Goroutines never return errors.
	_ = g.Wait()

	return outcomes
}

// mergeOutcome folds a successful refetch into every offer of the batch that shares its code.
func (s *Service) mergeOutcome(
	ctx context.Context,
	batch []offers.Offer,
	outcome refetchOutcome,
	diagnostics map[string]OfferDiagnostics,
) {
	code := diagnosticsCode(outcome.code)

	for i := range batch {
		if !offers.SameCode(batch[i].Code, outcome.code) {
			continue
		}

		onlyOriginal, onlyRefetched := offers.Diff(batch[i].Sailings, outcome.offer.Sailings)
		s.diffSink.RecordDiff(ctx, outcome.code, onlyOriginal, onlyRefetched)

		merged, added, replaced := offers.Merge(batch[i].Sailings, outcome.offer.Sailings)
		batch[i].Sailings = merged
		if outcome.offer.ExcludedSailings != nil {
			batch[i].ExcludedSailings = slices.Clone(outcome.offer.ExcludedSailings)
		}

		d := diagnostics[code]
		d.Added += added
		d.Replaced += replaced
		diagnostics[code] = d
	}
}

// invalidate discards the session after an auth failure. Failures are logged only.
func (s *Service) invalidate(ctx context.Context, logger *slog.Logger, creds Credentials) {
	if creds == nil {
		return
	}
	if err := creds.Invalidate(ctx); err != nil {
		logger.Error("failed to invalidate session", "error", err)
		return
	}
	logger.Info("session invalidated, login required")
}

// diagnosticsCode is the map key used for an offer code.
func diagnosticsCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
