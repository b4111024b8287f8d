// Package config provides configuration loading from environment variables and the local config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvCasinoBaseURL overrides the brand's default site URL.
	EnvCasinoBaseURL = "CASINO_BASE_URL"

	// EnvCasinoBrand is the cruise line brand code: R (Royal Caribbean) or C (Celebrity).
	EnvCasinoBrand = "CASINO_BRAND"

	// EnvDynamoDBTableName is the DynamoDB table holding offer snapshots.
	EnvDynamoDBTableName = "DYNAMODB_TABLE_NAME"

	// EnvHTTPTimeout is the per-request HTTP timeout, e.g. "30s".
	EnvHTTPTimeout = "HTTP_TIMEOUT"

	// EnvRedisURL is the Redis connection URL used when the snapshot backend is redis.
	EnvRedisURL = "REDIS_URL"

	// EnvSessionSecretARN is the Secrets Manager ARN holding the session JSON.
	EnvSessionSecretARN = "SESSION_SECRET_ARN"

	// EnvSnapshotBackend selects where snapshots are stored: dynamodb (default) or redis.
	EnvSnapshotBackend = "SNAPSHOT_BACKEND"

	// EnvSnapshotNamespace prefixes snapshot keys (default: offers-).
	EnvSnapshotNamespace = "SNAPSHOT_NAMESPACE"

	// EnvSnapshotTTL expires Redis snapshots that are not refreshed. Zero keeps them forever.
	EnvSnapshotTTL = "SNAPSHOT_TTL"

	// EnvSSMParameterPrefix is the SSM path holding one sync state parameter per snapshot key (optional).
	EnvSSMParameterPrefix = "SSM_PARAMETER_PREFIX"

	// EnvSyncMaxAttempts caps the initial fetch attempts (default: 3).
	EnvSyncMaxAttempts = "SYNC_MAX_ATTEMPTS"

	// EnvSyncMaxConcurrentRefetches bounds the refetch fan-out. Zero means unbounded.
	EnvSyncMaxConcurrentRefetches = "SYNC_MAX_CONCURRENT_REFETCHES"

	// EnvSyncMaxNights is the longest sailing kept on marked offers (default: 7).
	EnvSyncMaxNights = "SYNC_MAX_NIGHTS"

	// EnvSyncMinInterval skips runs closer together than this, e.g. "15m".
	EnvSyncMinInterval = "SYNC_MIN_INTERVAL"

	// EnvSyncRetryDelay is the fixed wait between initial fetch attempts (default: 2s).
	EnvSyncRetryDelay = "SYNC_RETRY_DELAY"

	// EnvSyncTierMarker is the offer code fragment that activates the night limit (default: TIER).
	EnvSyncTierMarker = "SYNC_TIER_MARKER"
)

const (
	// BackendDynamoDB stores snapshots in DynamoDB.
	BackendDynamoDB = "dynamodb"

	// BackendRedis stores snapshots in Redis.
	BackendRedis = "redis"
)

const (
	defaultBrand       = "R"
	defaultMaxAttempts = 3
	defaultMaxNights   = 7
	defaultNamespace   = "offers-"
	defaultRetryDelay  = 2 * time.Second
	defaultTierMarker  = "TIER"
	defaultTimeout     = 30 * time.Second
)

// Casino holds casino offers API configuration.
type Casino struct {
	// BaseURL overrides the brand's default site. Empty means use the default.
	BaseURL string `yaml:"base_url"`

	// Brand is the cruise line brand code.
	Brand string `yaml:"brand"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// Session holds where the Lambda reads the login session from.
type Session struct {
	// SecretARN is the Secrets Manager ARN of the session secret.
	SecretARN string
}

// Snapshot holds snapshot persistence configuration.
type Snapshot struct {
	// Backend is BackendDynamoDB or BackendRedis.
	Backend string

	// DynamoDBTableName is the table used by the dynamodb backend.
	DynamoDBTableName string

	// Namespace prefixes every snapshot key.
	Namespace string

	// RedisURL is the server used by the redis backend.
	RedisURL string

	// TTL expires Redis snapshots. Zero keeps them forever.
	TTL time.Duration
}

// SSM holds AWS Systems Manager Parameter Store configuration.
type SSM struct {
	// ParameterPrefix is the SSM path under which each snapshot key's sync state is stored.
	ParameterPrefix string
}

// Sync holds reconciliation tuning shared by the Lambda and the local CLI.
type Sync struct {
	// MaxAttempts caps the initial fetch attempts.
	MaxAttempts int `yaml:"max_attempts"`

	// MaxConcurrentRefetches bounds the refetch fan-out. Zero means unbounded.
	MaxConcurrentRefetches int `yaml:"max_concurrent_refetches"`

	// MaxNights is the longest sailing kept on marked offers.
	MaxNights int `yaml:"max_nights"`

	// MinInterval skips runs closer together than this. Zero disables the check.
	MinInterval time.Duration `yaml:"min_interval"`

	// RetryDelay is the fixed wait between initial fetch attempts.
	RetryDelay time.Duration `yaml:"retry_delay"`

	// TierMarker is the offer code fragment that activates the night limit.
	TierMarker string `yaml:"tier_marker"`
}

// Settings holds all configuration for the Lambda.
type Settings struct {
	// Casino contains casino offers API settings.
	Casino Casino

	// Session contains session secret settings.
	Session Session

	// Snapshot contains snapshot persistence settings.
	Snapshot Snapshot

	// SSM contains AWS Systems Manager Parameter Store settings.
	SSM SSM

	// Sync contains reconciliation tuning.
	Sync Sync
}

func (s *Settings) validate() error {
	var errs []error

	if !validBrand(s.Casino.Brand) {
		errs = append(errs, fmt.Errorf("%s must be R or C, got %q", EnvCasinoBrand, s.Casino.Brand))
	}
	if s.Casino.Timeout <= 0 {
		errs = append(errs, positiveError(EnvHTTPTimeout))
	}
	if s.Session.SecretARN == "" {
		errs = append(errs, requiredError(EnvSessionSecretARN))
	}

	switch s.Snapshot.Backend {
	case BackendDynamoDB:
		if s.Snapshot.DynamoDBTableName == "" {
			errs = append(errs, requiredError(EnvDynamoDBTableName))
		}
	case BackendRedis:
		if s.Snapshot.RedisURL == "" {
			errs = append(errs, requiredError(EnvRedisURL))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be %s or %s, got %q",
			EnvSnapshotBackend, BackendDynamoDB, BackendRedis, s.Snapshot.Backend))
	}
	if s.Snapshot.TTL < 0 {
		errs = append(errs, nonNegativeError(EnvSnapshotTTL))
	}
	if p := s.SSM.ParameterPrefix; p != "" && !strings.HasPrefix(p, "/") {
		errs = append(errs, fmt.Errorf("%s must start with /, got %q", EnvSSMParameterPrefix, p))
	}

	errs = append(errs, s.Sync.validate(syncFieldNames{
		maxAttempts:            EnvSyncMaxAttempts,
		maxConcurrentRefetches: EnvSyncMaxConcurrentRefetches,
		maxNights:              EnvSyncMaxNights,
		minInterval:            EnvSyncMinInterval,
		retryDelay:             EnvSyncRetryDelay,
	}))

	return errors.Join(errs...)
}

// syncFieldNames names the Sync fields in error messages.
type syncFieldNames struct {
	maxAttempts            string
	maxConcurrentRefetches string
	maxNights              string
	minInterval            string
	retryDelay             string
}

func (s *Sync) validate(names syncFieldNames) error {
	var errs []error

	if s.MaxAttempts < 1 {
		errs = append(errs, positiveError(names.maxAttempts))
	}
	if s.MaxConcurrentRefetches < 0 {
		errs = append(errs, nonNegativeError(names.maxConcurrentRefetches))
	}
	if s.MaxNights < 0 {
		errs = append(errs, nonNegativeError(names.maxNights))
	}
	if s.MinInterval < 0 {
		errs = append(errs, nonNegativeError(names.minInterval))
	}
	if s.RetryDelay < 0 {
		errs = append(errs, nonNegativeError(names.retryDelay))
	}

	return errors.Join(errs...)
}

// Load reads configuration from environment variables.
func Load() (*Settings, error) {
	var errs []error

	cfg := &Settings{
		Casino: Casino{
			BaseURL: strings.TrimSpace(os.Getenv(EnvCasinoBaseURL)),
			Brand:   strings.ToUpper(envOrDefault(EnvCasinoBrand, defaultBrand)),
			Timeout: envDuration(EnvHTTPTimeout, defaultTimeout, &errs),
		},
		Session: Session{
			SecretARN: strings.TrimSpace(os.Getenv(EnvSessionSecretARN)),
		},
		Snapshot: Snapshot{
			Backend:           strings.ToLower(envOrDefault(EnvSnapshotBackend, BackendDynamoDB)),
			DynamoDBTableName: strings.TrimSpace(os.Getenv(EnvDynamoDBTableName)),
			Namespace:         envOrDefault(EnvSnapshotNamespace, defaultNamespace),
			RedisURL:          strings.TrimSpace(os.Getenv(EnvRedisURL)),
			TTL:               envDuration(EnvSnapshotTTL, 0, &errs),
		},
		SSM: SSM{
			ParameterPrefix: strings.TrimSpace(os.Getenv(EnvSSMParameterPrefix)),
		},
		Sync: Sync{
			MaxAttempts:            envInt(EnvSyncMaxAttempts, defaultMaxAttempts, &errs),
			MaxConcurrentRefetches: envInt(EnvSyncMaxConcurrentRefetches, 0, &errs),
			MaxNights:              envInt(EnvSyncMaxNights, defaultMaxNights, &errs),
			MinInterval:            envDuration(EnvSyncMinInterval, 0, &errs),
			RetryDelay:             envDuration(EnvSyncRetryDelay, defaultRetryDelay, &errs),
			TierMarker:             envOrDefault(EnvSyncTierMarker, defaultTierMarker),
		},
	}

	if err := errors.Join(append(errs, cfg.validate())...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultSync returns the reconciliation defaults.
func DefaultSync() Sync {
	return Sync{
		MaxAttempts: defaultMaxAttempts,
		MaxNights:   defaultMaxNights,
		RetryDelay:  defaultRetryDelay,
		TierMarker:  defaultTierMarker,
	}
}

func envDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a duration: %w", key, err))
		return defaultValue
	}
	return d
}

func envInt(key string, defaultValue int, errs *[]error) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer: %w", key, err))
		return defaultValue
	}
	return n
}

func envOrDefault(key string, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func nonNegativeError(name string) error {
	return fmt.Errorf("%s cannot be negative", name)
}

func positiveError(name string) error {
	return fmt.Errorf("%s must be positive", name)
}

func requiredError(envVar string) error {
	return fmt.Errorf("%s is required", envVar)
}

func validBrand(brand string) bool {
	return brand == "R" || brand == "C"
}
