package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables holds the names of the tables the Store writes to.
type Tables struct {
	Sessions    string
	Requests    string
	Messages    string
	Items       string
	Profiles    string
	Transfers   string
	Connections string
	Reads       string
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client DynamoDBAPI
	Tables Tables
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client: client,
		Tables: tables,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

const (
	waitingPoolIndex   = "status-order_key-index"
	participantAIndex  = "participant_a-index"
	participantBIndex  = "participant_b-index"
	ownerIndex         = "owner_id-index"
	connectionsByUser  = "user_id-index"
	conditionalFailure = "ConditionalCheckFailed"
)

func stringAV(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

func boolAV(v bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: v}
}

func numberAV(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", v)}
}

func timeAV(t time.Time) (types.AttributeValue, error) {
	av, err := attributevalue.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	return av, nil
}

// isConditionalCheckFailed reports whether a single-item write failed its condition.
func isConditionalCheckFailed(err error) bool {
	var condCheckFailed *types.ConditionalCheckFailedException
	return errors.As(err, &condCheckFailed)
}

// failedConditions returns the indexes of the transaction items whose
// condition failed, or nil if err is not a cancelled transaction.
func failedConditions(err error) []int {
	var cancelled *types.TransactionCanceledException
	if !errors.As(err, &cancelled) {
		return nil
	}
	var failed []int
	for i, reason := range cancelled.CancellationReasons {
		if aws.ToString(reason.Code) == conditionalFailure {
			failed = append(failed, i)
		}
	}
	return failed
}

// queryAll follows LastEvaluatedKey until every page is read or stop returns true.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput, stop func(items int) bool) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		out, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 || (stop != nil && stop(len(items))) {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
