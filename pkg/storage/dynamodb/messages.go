package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// AppendMessage stores a conversation entry. Messages are never updated.
func (s *Store) AppendMessage(ctx context.Context, msg *models.TradeMessage) error {
	item, err := attributevalue.MarshalMap(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Messages),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return storage.ErrMessageExists
		}
		return fmt.Errorf("failed to put message: %w", err)
	}
	return nil
}

// ListMessages retrieves a session's conversation. The sort key is the
// message ULID, so the query order is creation order.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]models.TradeMessage, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Messages),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": stringAV(sessionID),
		},
		ScanIndexForward: aws.Bool(true),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	messages := []models.TradeMessage{}
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}
