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
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// GetItem retrieves an item from the ownership table.
func (s *Store) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Items),
		Key:            map[string]types.AttributeValue{"id": stringAV(itemID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if out.Item == nil {
		return nil, storage.ErrItemNotFound
	}

	var item models.Item
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &item, nil
}

// GetOwnedItems lists a user's items through the owner index.
func (s *Store) GetOwnedItems(ctx context.Context, userID string) ([]models.Item, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Items),
		IndexName:              aws.String(ownerIndex),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": stringAV(userID),
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned items: %w", err)
	}

	owned := []models.Item{}
	if err := attributevalue.UnmarshalListOfMaps(items, &owned); err != nil {
		return nil, fmt.Errorf("failed to unmarshal owned items: %w", err)
	}
	return owned, nil
}

// itemTransfer builds the conditional owner update shared by single transfers
// and session completion. The item leaves its placement in the old owner's book.
func (s *Store) itemTransfer(itemID, fromUserID, toUserID string, nowAV types.AttributeValue) *types.Update {
	return &types.Update{
		TableName:           aws.String(s.Tables.Items),
		Key:                 map[string]types.AttributeValue{"id": stringAV(itemID)},
		UpdateExpression:    aws.String("SET owner_id = :to, updated_at = :now REMOVE placement"),
		ConditionExpression: aws.String("owner_id = :from"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": stringAV(fromUserID),
			":to":   stringAV(toUserID),
			":now":  nowAV,
		},
	}
}

// TransferOwnership moves one item, provided fromUserID still owns it.
func (s *Store) TransferOwnership(ctx context.Context, itemID, fromUserID, toUserID string) (*models.Item, error) {
	nowAV, err := timeAV(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	update := s.itemTransfer(itemID, fromUserID, toUserID, nowAV)

	out, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 update.TableName,
		Key:                       update.Key,
		UpdateExpression:          update.UpdateExpression,
		ConditionExpression:       update.ConditionExpression,
		ExpressionAttributeValues: update.ExpressionAttributeValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, storage.ErrOwnershipChanged
		}
		return nil, fmt.Errorf("failed to transfer item: %w", err)
	}

	var item models.Item
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transferred item: %w", err)
	}
	return &item, nil
}

// GetProfile retrieves a user's display information.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Profiles),
		Key:       map[string]types.AttributeValue{"user_id": stringAV(userID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if out.Item == nil {
		return nil, storage.ErrProfileNotFound
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(out.Item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}
