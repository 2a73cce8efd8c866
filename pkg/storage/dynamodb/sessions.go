package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// GetSession retrieves a session by its ID.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Sessions),
		Key:            map[string]types.AttributeValue{"id": stringAV(sessionID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if out.Item == nil {
		return nil, storage.ErrSessionNotFound
	}

	var session models.Session
	if err := attributevalue.UnmarshalMap(out.Item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// CreateSession inserts a new session, failing if the ID is taken.
func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	if session.OrderKey == "" {
		session.OrderKey = models.OrderKey(session.CreatedAt, session.Id)
	}
	item, err := attributevalue.MarshalMap(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Sessions),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return storage.ErrSessionExists
		}
		return fmt.Errorf("failed to put session: %w", err)
	}
	return nil
}

// ListSessionsByParticipant queries both participant indexes and merges the results.
func (s *Store) ListSessionsByParticipant(ctx context.Context, userID string) ([]models.Session, error) {
	seen := map[string]bool{}
	var sessions []models.Session

	for _, index := range []struct{ name, attr string }{
		{participantAIndex, "participant_a"},
		{participantBIndex, "participant_b"},
	} {
		items, err := s.queryAll(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.Tables.Sessions),
			IndexName:              aws.String(index.name),
			KeyConditionExpression: aws.String(index.attr + " = :user"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":user": stringAV(userID),
			},
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", index.name, err)
		}

		var page []models.Session
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sessions: %w", err)
		}
		for _, session := range page {
			if !seen[session.Id] {
				seen[session.Id] = true
				sessions = append(sessions, session)
			}
		}
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].OrderKey > sessions[j].OrderKey })
	return sessions, nil
}

// ListWaitingSessions reads the waiting pool from the status index, oldest first.
func (s *Store) ListWaitingSessions(ctx context.Context, excludeUserID string, limit int) ([]models.Session, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Sessions),
		IndexName:              aws.String(waitingPoolIndex),
		KeyConditionExpression: aws.String("#status = :waiting"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":waiting": stringAV(string(models.WAITING)),
		},
		ScanIndexForward: aws.Bool(true),
	}
	if excludeUserID != "" {
		input.FilterExpression = aws.String("participant_a <> :user AND attribute_not_exists(participant_b)")
		input.ExpressionAttributeValues[":user"] = stringAV(excludeUserID)
	} else {
		input.FilterExpression = aws.String("attribute_not_exists(participant_b)")
	}

	items, err := s.queryAll(ctx, input, func(n int) bool { return limit > 0 && n >= limit })
	if err != nil {
		return nil, fmt.Errorf("failed to query waiting sessions: %w", err)
	}

	var sessions []models.Session
	if err := attributevalue.UnmarshalListOfMaps(items, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal waiting sessions: %w", err)
	}
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}
