package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/peteski22/offersync/internal/sync"
)

// SSMAPI defines the SSM operations used by the state store.
type SSMAPI interface {
	// GetParameter retrieves a parameter from SSM.
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)

	// PutParameter stores a parameter in SSM.
	PutParameter(
		ctx context.Context,
		params *ssm.PutParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.PutParameterOutput, error)
}

// SSMStateStore keeps one JSON parameter per snapshot key under a common path prefix, e.g.
// /offersync/state/offers-jane_example.com.
type SSMStateStore struct {
	// client is the SSM API client.
	client SSMAPI

	// prefix is the parameter path the snapshot keys are appended to.
	prefix string
}

// LastSync returns the state recorded for key, or nil when the parameter does not exist.
func (s *SSMStateStore) LastSync(ctx context.Context, key string) (*sync.SyncState, error) {
	name, err := s.parameterName(key)
	if err != nil {
		return nil, err
	}

	output, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{Name: aws.String(name)})
	if err != nil {
		var notFoundErr *types.ParameterNotFound
		if errors.As(err, &notFoundErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting sync state %s from SSM: %w", name, err)
	}
	if output.Parameter == nil || aws.ToString(output.Parameter.Value) == "" {
		return nil, nil
	}

	var state sync.SyncState
	if err := json.Unmarshal([]byte(*output.Parameter.Value), &state); err != nil {
		return nil, fmt.Errorf("decoding sync state %s: %w", name, err)
	}

	return &state, nil
}

// RecordSync overwrites the parameter for state.SnapshotKey.
func (s *SSMStateStore) RecordSync(ctx context.Context, state sync.SyncState) error {
	name, err := s.parameterName(state.SnapshotKey)
	if err != nil {
		return err
	}

	state.SavedAt = state.SavedAt.UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding sync state: %w", err)
	}

	_, err = s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Overwrite: aws.Bool(true),
		Type:      types.ParameterTypeString,
		Value:     aws.String(string(data)),
	})
	if err != nil {
		return fmt.Errorf("putting sync state %s to SSM: %w", name, err)
	}

	return nil
}

// parameterName returns the parameter holding the state for key.
func (s *SSMStateStore) parameterName(key string) (string, error) {
	if key == "" {
		return "", errors.New("snapshot key is required")
	}
	return path.Join(s.prefix, key), nil
}

// NewSSMStateStore creates a state store writing parameters under prefix.
func NewSSMStateStore(client SSMAPI, prefix string) (*SSMStateStore, error) {
	if client == nil {
		return nil, errors.New("ssm client is required")
	}

	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return nil, errors.New("parameter prefix is required")
	}
	if !strings.HasPrefix(prefix, "/") {
		return nil, fmt.Errorf("parameter prefix must start with /, got %q", prefix)
	}

	return &SSMStateStore{
		client: client,
		prefix: prefix,
	}, nil
}
