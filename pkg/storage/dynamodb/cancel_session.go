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

// CancelSession moves a session from the expected status to CANCELLED.
func (s *Store) CancelSession(ctx context.Context, sessionID string, expected models.SessionStatus, cancelledBy string, reason models.CancelReason) (*models.Session, error) {
	if !models.CanTransition(expected, models.CANCELLED) {
		return nil, storage.ErrSessionConflict
	}

	nowAV, err := timeAV(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Sessions),
		Key:                 map[string]types.AttributeValue{"id": stringAV(sessionID)},
		UpdateExpression:    aws.String("SET #status = :cancelled, cancelled_by = :by, cancel_reason = :reason, version = version + :inc, updated_at = :now"),
		ConditionExpression: aws.String("#status = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cancelled": stringAV(string(models.CANCELLED)),
			":expected":  stringAV(string(expected)),
			":by":        stringAV(cancelledBy),
			":reason":    stringAV(string(reason)),
			":inc":       numberAV(1),
			":now":       nowAV,
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	out, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, storage.ErrSessionConflict
		}
		return nil, fmt.Errorf("failed to cancel session: %w", err)
	}

	var session models.Session
	if err := attributevalue.UnmarshalMap(out.Attributes, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cancelled session: %w", err)
	}
	return &session, nil
}
