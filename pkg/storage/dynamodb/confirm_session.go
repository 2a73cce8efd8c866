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

func confirmationAttr(side models.Side) string {
	if side == models.SideA {
		return "confirmed_a"
	}
	return "confirmed_b"
}

// SetConfirmation sets one side's confirmation flag. Flags are never cleared.
func (s *Store) SetConfirmation(ctx context.Context, sessionID string, side models.Side) (*models.Session, error) {
	nowAV, err := timeAV(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Sessions),
		Key:                 map[string]types.AttributeValue{"id": stringAV(sessionID)},
		UpdateExpression:    aws.String("SET #flag = :true, version = version + :inc, updated_at = :now"),
		ConditionExpression: aws.String("#status = :negotiating AND #flag = :false"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
			"#flag":   confirmationAttr(side),
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":negotiating": stringAV(string(models.NEGOTIATING)),
			":true":        boolAV(true),
			":false":       boolAV(false),
			":inc":         numberAV(1),
			":now":         nowAV,
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	out, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, storage.ErrSessionConflict
		}
		return nil, fmt.Errorf("failed to set confirmation: %w", err)
	}

	var session models.Session
	if err := attributevalue.UnmarshalMap(out.Attributes, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal confirmed session: %w", err)
	}
	return &session, nil
}
