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
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// ClaimSession atomically pairs userID into a waiting session.
// The condition is the whole claim: exactly one concurrent caller can satisfy it.
func (s *Store) ClaimSession(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	nowAV, err := timeAV(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Sessions),
		Key:                 map[string]types.AttributeValue{"id": stringAV(sessionID)},
		UpdateExpression:    aws.String("SET participant_b = :user, #status = :negotiating, version = version + :inc, updated_at = :now"),
		ConditionExpression: aws.String("#status = :waiting AND attribute_not_exists(participant_b) AND participant_a <> :user"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user":        stringAV(userID),
			":waiting":     stringAV(string(models.WAITING)),
			":negotiating": stringAV(string(models.NEGOTIATING)),
			":inc":         numberAV(1),
			":now":         nowAV,
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	out, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, storage.ErrClaimLost
		}
		return nil, fmt.Errorf("failed to claim session: %w", err)
	}

	var session models.Session
	if err := attributevalue.UnmarshalMap(out.Attributes, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claimed session: %w", err)
	}
	return &session, nil
}

// ClaimAndWithdraw claims sessionID for userID and withdraws userID's own
// waiting session in one transaction. Either both writes apply or neither.
func (s *Store) ClaimAndWithdraw(ctx context.Context, sessionID, ownSessionID, userID string) (*models.Session, error) {
	nowAV, err := timeAV(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           aws.String(s.Tables.Sessions),
					Key:                 map[string]types.AttributeValue{"id": stringAV(sessionID)},
					UpdateExpression:    aws.String("SET participant_b = :user, #status = :negotiating, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("#status = :waiting AND attribute_not_exists(participant_b) AND participant_a <> :user"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":user":        stringAV(userID),
						":waiting":     stringAV(string(models.WAITING)),
						":negotiating": stringAV(string(models.NEGOTIATING)),
						":inc":         numberAV(1),
						":now":         nowAV,
					},
				},
			},
			{
				Update: &types.Update{
					TableName:           aws.String(s.Tables.Sessions),
					Key:                 map[string]types.AttributeValue{"id": stringAV(ownSessionID)},
					UpdateExpression:    aws.String("SET #status = :cancelled, cancelled_by = :user, cancel_reason = :reason, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("#status = :waiting AND attribute_not_exists(participant_b) AND participant_a = :user"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":user":      stringAV(userID),
						":waiting":   stringAV(string(models.WAITING)),
						":cancelled": stringAV(string(models.CANCELLED)),
						":reason":    stringAV(string(models.CancelReasonSuperseded)),
						":inc":       numberAV(1),
						":now":       nowAV,
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		failed := failedConditions(err)
		for _, i := range failed {
			if i == 1 {
				return nil, storage.ErrSessionConflict
			}
		}
		var cancelled *types.TransactionCanceledException
		if len(failed) > 0 || errors.As(err, &cancelled) {
			// A concurrent transaction on either session also means the claim was lost.
			return nil, storage.ErrClaimLost
		}
		return nil, fmt.Errorf("failed to execute claim transaction: %w", err)
	}

	return s.GetSession(ctx, sessionID)
}
