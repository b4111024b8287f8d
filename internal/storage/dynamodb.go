package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/peteski22/offersync/internal/sync"
)

const (
	attrRunID    = "run_id"
	attrSavedAt  = "saved_at"
	attrSnapshot = "snapshot"
	attrKey      = "snapshot_key"
)

// DynamoDBAPI defines the DynamoDB operations used by the snapshot store.
type DynamoDBAPI interface {
	// GetItem retrieves an item from DynamoDB.
	GetItem(
		ctx context.Context,
		params *dynamodb.GetItemInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.GetItemOutput, error)

	// PutItem stores an item in DynamoDB.
	PutItem(
		ctx context.Context,
		params *dynamodb.PutItemInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.PutItemOutput, error)
}

// DynamoDBSnapshotStore keeps one item per snapshot key holding the JSON-encoded result.
type DynamoDBSnapshotStore struct {
	// client is the DynamoDB API client.
	client DynamoDBAPI

	// tableName is the name of the DynamoDB table.
	tableName string
}

// Get returns the snapshot stored under key, or nil if there is none.
func (s *DynamoDBSnapshotStore) Get(ctx context.Context, key string) (*sync.Result, error) {
	if key == "" {
		return nil, errors.New("snapshot key is required")
	}

	output, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			attrKey: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting item from DynamoDB: %w", err)
	}

	if output.Item == nil {
		return nil, nil
	}

	snapshotAttr, ok := output.Item[attrSnapshot].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("item %s has no snapshot attribute", key)
	}

	return decodeResult([]byte(snapshotAttr.Value))
}

// Put replaces the snapshot stored under key.
func (s *DynamoDBSnapshotStore) Put(ctx context.Context, key string, result *sync.Result) error {
	if key == "" {
		return errors.New("snapshot key is required")
	}

	data, err := encodeResult(result)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			attrKey:      &types.AttributeValueMemberS{Value: key},
			attrRunID:    &types.AttributeValueMemberS{Value: result.RunID},
			attrSavedAt:  &types.AttributeValueMemberS{Value: result.SavedAt.UTC().Format(time.RFC3339)},
			attrSnapshot: &types.AttributeValueMemberS{Value: string(data)},
		},
	})
	if err != nil {
		return fmt.Errorf("putting item to DynamoDB: %w", err)
	}

	return nil
}

// NewDynamoDBSnapshotStore creates a new DynamoDB-backed snapshot store.
func NewDynamoDBSnapshotStore(client DynamoDBAPI, tableName string) (*DynamoDBSnapshotStore, error) {
	if client == nil {
		return nil, errors.New("dynamodb client is required")
	}
	if tableName == "" {
		return nil, errors.New("table name is required")
	}

	return &DynamoDBSnapshotStore{
		client:    client,
		tableName: tableName,
	}, nil
}

// decodeResult parses a stored snapshot.
func decodeResult(data []byte) (*sync.Result, error) {
	var result sync.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &result, nil
}

// encodeResult serializes a snapshot for storage.
func encodeResult(result *sync.Result) ([]byte, error) {
	if result == nil {
		return nil, errors.New("snapshot is required")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}
