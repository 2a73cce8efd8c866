package dynamodb

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// maxTransfersPerCompletion keeps the completion within DynamoDB's limit of
// 100 items per transaction: one session update plus two items per transfer.
const maxTransfersPerCompletion = 49

// CompleteSession performs the final atomic settlement of a session.
// The session update is guarded by status, both confirmation flags and the
// version that was read, so concurrent confirmers cannot both complete it.
// Each transfer is guarded by the item's current owner.
func (s *Store) CompleteSession(ctx context.Context, session *models.Session, plan *models.Settlement) (*models.Session, error) {
	if len(plan.Transfers) > maxTransfersPerCompletion {
		return nil, fmt.Errorf("failed to complete session: %d transfers exceed the limit of %d", len(plan.Transfers), maxTransfersPerCompletion)
	}

	now := time.Now().UTC()
	nowAV, err := timeAV(now)
	if err != nil {
		return nil, err
	}

	items := make([]types.TransactWriteItem, 0, 1+2*len(plan.Transfers))

	// Operation 1: move the session to COMPLETED.
	items = append(items, types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.Tables.Sessions),
			Key:                 map[string]types.AttributeValue{"id": stringAV(session.Id)},
			UpdateExpression:    aws.String("SET #status = :completed, completed_at = :now, updated_at = :now, version = version + :inc"),
			ConditionExpression: aws.String("#status = :negotiating AND confirmed_a = :true AND confirmed_b = :true AND version = :version"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":completed":   stringAV(string(models.COMPLETED)),
				":negotiating": stringAV(string(models.NEGOTIATING)),
				":true":        boolAV(true),
				":version":     numberAV(session.Version),
				":inc":         numberAV(1),
				":now":         nowAV,
			},
		},
	})

	// Operations 2..n: one owner update and one audit record per transfer.
	for _, t := range plan.Transfers {
		record, err := attributevalue.MarshalMap(t)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal transfer: %w", err)
		}
		items = append(items,
			types.TransactWriteItem{Update: s.itemTransfer(t.ItemId, t.FromUserId, t.ToUserId, nowAV)},
			types.TransactWriteItem{Put: &types.Put{
				TableName:           aws.String(s.Tables.Transfers),
				Item:                record,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			}},
		)
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		failed := failedConditions(err)
		switch {
		case slices.Contains(failed, 0):
			return nil, storage.ErrSessionConflict
		case len(failed) > 0:
			return nil, storage.ErrOwnershipChanged
		}
		return nil, fmt.Errorf("failed to execute completion transaction: %w", err)
	}

	completed := *session
	completed.Status = models.COMPLETED
	completed.CompletedAt = &now
	completed.UpdatedAt = now
	completed.Version++
	return &completed, nil
}

// ListTransfers retrieves the audit records of a completed session.
func (s *Store) ListTransfers(ctx context.Context, sessionID string) ([]models.Transfer, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transfers),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": stringAV(sessionID),
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}

	transfers := []models.Transfer{}
	if err := attributevalue.UnmarshalListOfMaps(items, &transfers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transfers: %w", err)
	}
	return transfers, nil
}
