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

func readKey(sessionID, userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"session_id": stringAV(sessionID),
		"user_id":    stringAV(userID),
	}
}

// GetReadMarker returns the last message id the user has read in a session.
func (s *Store) GetReadMarker(ctx context.Context, sessionID, userID string) (string, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Reads),
		Key:            readKey(sessionID, userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get read marker: %w", err)
	}
	if out.Item == nil {
		return "", nil
	}

	var marker models.ReadMarker
	if err := attributevalue.UnmarshalMap(out.Item, &marker); err != nil {
		return "", fmt.Errorf("failed to unmarshal read marker: %w", err)
	}
	return marker.LastReadId, nil
}

// MarkRead moves the read marker forward. Message ids are ULIDs, so a
// string comparison keeps the marker from moving backwards when two reads race.
func (s *Store) MarkRead(ctx context.Context, sessionID, userID, messageID string) error {
	now, err := timeAV(time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Reads),
		Key:                 readKey(sessionID, userID),
		UpdateExpression:    aws.String("SET last_read_id = :id, updated_at = :now"),
		ConditionExpression: aws.String("attribute_not_exists(last_read_id) OR last_read_id < :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id":  stringAV(messageID),
			":now": now,
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil
		}
		return fmt.Errorf("failed to update read marker: %w", err)
	}
	return nil
}
