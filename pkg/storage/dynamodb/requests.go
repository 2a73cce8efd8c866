package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

func requestKey(sessionID, requesterID, itemID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"session_id":  stringAV(sessionID),
		"request_key": stringAV(models.RequestKey(requesterID, itemID)),
	}
}

// ledgerUpdate moves the session's request count by delta under the guard
// every ledger write is checked against. A positive limit also requires the
// count to be below it.
func (s *Store) ledgerUpdate(sessionID string, side models.Side, delta int64, limit int) *types.Update {
	condition := "#status = :negotiating AND #flag = :false"
	values := map[string]types.AttributeValue{
		":negotiating": stringAV(string(models.NEGOTIATING)),
		":false":       boolAV(false),
		":zero":        numberAV(0),
		":delta":       numberAV(delta),
	}
	if limit > 0 {
		condition += " AND (attribute_not_exists(request_count) OR request_count < :limit)"
		values[":limit"] = numberAV(int64(limit))
	}
	return &types.Update{
		TableName:           aws.String(s.Tables.Sessions),
		Key:                 map[string]types.AttributeValue{"id": stringAV(sessionID)},
		UpdateExpression:    aws.String("SET request_count = if_not_exists(request_count, :zero) + :delta"),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
			"#flag":   confirmationAttr(side),
		},
		ExpressionAttributeValues:           values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}
}

// guardFailure tells a full ledger apart from a session that stopped
// accepting writes, using the session image returned by the cancelled transaction.
func guardFailure(err error, side models.Side) error {
	var cancelled *types.TransactionCanceledException
	if errors.As(err, &cancelled) && len(cancelled.CancellationReasons) > 0 {
		var session models.Session
		item := cancelled.CancellationReasons[0].Item
		if item != nil && attributevalue.UnmarshalMap(item, &session) == nil &&
			session.Status == models.NEGOTIATING && !session.ConfirmedOn(side) {
			return storage.ErrLedgerFull
		}
	}
	return storage.ErrSessionConflict
}

// GetRequest retrieves a single ledger entry.
func (s *Store) GetRequest(ctx context.Context, sessionID, requesterID, itemID string) (*models.TradeRequest, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Requests),
		Key:            requestKey(sessionID, requesterID, itemID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if out.Item == nil {
		return nil, storage.ErrRequestNotFound
	}

	var req models.TradeRequest
	if err := attributevalue.UnmarshalMap(out.Item, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return &req, nil
}

// ListRequests retrieves the whole ledger of a session in creation order.
func (s *Store) ListRequests(ctx context.Context, sessionID string) ([]models.TradeRequest, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Requests),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": stringAV(sessionID),
		},
		ConsistentRead: aws.Bool(true),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}

	requests := []models.TradeRequest{}
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
	}
	slices.SortStableFunc(requests, func(a, b models.TradeRequest) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return requests, nil
}

// PutRequest inserts a ledger entry and counts it on the session in one transaction.
func (s *Store) PutRequest(ctx context.Context, req *models.TradeRequest, side models.Side, limit int) error {
	req.RequestKey = models.RequestKey(req.RequesterId, req.TargetItemId)
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: the session still accepts ledger changes from this side and has room.
				Update: s.ledgerUpdate(req.SessionId, side, 1, limit),
			},
			{
				// Operation 2: insert the entry unless it already exists.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Requests),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(request_key)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		failed := failedConditions(err)
		switch {
		case slices.Contains(failed, 0):
			return guardFailure(err, side)
		case slices.Contains(failed, 1):
			return storage.ErrRequestExists
		}
		return fmt.Errorf("failed to put request: %w", err)
	}
	return nil
}

// DeleteRequest removes a ledger entry and uncounts it on the session in one
// transaction. The count only moves when the entry existed.
func (s *Store) DeleteRequest(ctx context.Context, req *models.TradeRequest, side models.Side) error {
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: s.ledgerUpdate(req.SessionId, side, -1, 0),
			},
			{
				Delete: &types.Delete{
					TableName:           aws.String(s.Tables.Requests),
					Key:                 requestKey(req.SessionId, req.RequesterId, req.TargetItemId),
					ConditionExpression: aws.String("attribute_exists(request_key)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		failed := failedConditions(err)
		switch {
		case slices.Contains(failed, 0):
			return storage.ErrSessionConflict
		case slices.Contains(failed, 1):
			return nil
		}
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}
