package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
)

// AddConnection saves a websocket connection for a user.
func (s *Store) AddConnection(ctx context.Context, connectionID, userID string) error {
	conn := models.Connection{ConnectionId: connectionID, UserId: userID, ConnectedAt: time.Now().UTC()}
	item, err := attributevalue.MarshalMap(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.Connections),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put connection: %w", err)
	}
	return nil
}

// RemoveConnection deletes a websocket connection.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.Tables.Connections),
		Key:       map[string]types.AttributeValue{"connection_id": stringAV(connectionID)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// GetConnectionsForUser lists the open connections of a user.
func (s *Store) GetConnectionsForUser(ctx context.Context, userID string) ([]string, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Connections),
		IndexName:              aws.String(connectionsByUser),
		KeyConditionExpression: aws.String("user_id = :user"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user": stringAV(userID),
		},
		ProjectionExpression: aws.String("connection_id"),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	var conns []models.Connection
	if err := attributevalue.UnmarshalListOfMaps(items, &conns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
	}
	ids := make([]string, len(conns))
	for i, conn := range conns {
		ids[i] = conn.ConnectionId
	}
	return ids, nil
}
