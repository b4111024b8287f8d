package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/peteski22/offersync/internal/sync"
)

// SecretsManagerAPI defines the Secrets Manager operations used by the session store.
type SecretsManagerAPI interface {
	// GetSecretValue retrieves a secret value.
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)

	// PutSecretValue stores a secret value.
	PutSecretValue(
		ctx context.Context,
		params *secretsmanager.PutSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.PutSecretValueOutput, error)
}

// SecretsManagerSessionStore keeps the session as a JSON secret in AWS Secrets Manager.
type SecretsManagerSessionStore struct {
	// client is the Secrets Manager API client.
	client SecretsManagerAPI

	// secretARN is the ARN of the secret storing the session.
	secretARN string
}

// AccountIdentity returns the identity stored in the secret.
func (s *SecretsManagerSessionStore) AccountIdentity(ctx context.Context) (sync.Identity, error) {
	session, err := s.Load(ctx)
	if err != nil {
		return sync.Identity{}, err
	}
	return session.Identity(), nil
}

// AuthToken returns the stored token and its expiry.
func (s *SecretsManagerSessionStore) AuthToken(ctx context.Context) (string, time.Time, error) {
	session, err := s.Load(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	return session.Token, session.ExpiresAt, nil
}

// Invalidate clears the token but keeps the identity, so a later login only has to supply a new token.
func (s *SecretsManagerSessionStore) Invalidate(ctx context.Context) error {
	session, err := s.Load(ctx)
	if err != nil {
		return err
	}

	session.Token = ""
	session.ExpiresAt = time.Time{}

	return s.put(ctx, session)
}

// Load returns the current session from Secrets Manager.
func (s *SecretsManagerSessionStore) Load(ctx context.Context) (Session, error) {
	output, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretARN),
	})
	if err != nil {
		return Session{}, fmt.Errorf("getting secret from Secrets Manager: %w", err)
	}

	if output.SecretString == nil {
		return Session{}, errors.New("secret has no string value")
	}

	return decodeSession([]byte(*output.SecretString))
}

// Save stores a new session in Secrets Manager.
func (s *SecretsManagerSessionStore) Save(ctx context.Context, session Session) error {
	if err := session.validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	return s.put(ctx, session)
}

func (s *SecretsManagerSessionStore) put(ctx context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	_, err = s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(s.secretARN),
		SecretString: aws.String(string(data)),
	})
	if err != nil {
		return fmt.Errorf("putting secret to Secrets Manager: %w", err)
	}

	return nil
}

// NewSecretsManagerSessionStore creates a new Secrets Manager-backed session store.
func NewSecretsManagerSessionStore(client SecretsManagerAPI, secretARN string) (*SecretsManagerSessionStore, error) {
	if client == nil {
		return nil, errors.New("secrets manager client is required")
	}
	if secretARN == "" {
		return nil, errors.New("secret ARN is required")
	}

	return &SecretsManagerSessionStore{
		client:    client,
		secretARN: secretARN,
	}, nil
}
