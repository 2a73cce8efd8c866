package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetSession(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		av, _ := attributevalue.MarshalMap(&models.Session{Id: "s1", ParticipantA: "alice", Status: models.WAITING})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: av}, nil).Once()

		session, err := store.GetSession(context.Background(), "s1")

		assert.NoError(t, err)
		assert.Equal(t, "alice", session.ParticipantA)
		assert.Empty(t, session.ParticipantB)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		_, err := store.GetSession(context.Background(), "s1")

		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("GetItem Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := store.GetSession(context.Background(), "s1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get session")
		mockClient.AssertExpectations(t)
	})
}

func TestCreateSession(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}
		session := &models.Session{Id: "s1", ParticipantA: "alice", Status: models.WAITING, CreatedAt: createdAt}

		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			_, hasB := in.Item["participant_b"]
			return aws.ToString(in.ConditionExpression) == "attribute_not_exists(id)" && !hasB
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		err := store.CreateSession(context.Background(), session)

		assert.NoError(t, err)
		assert.Equal(t, models.OrderKey(createdAt, "s1"), session.OrderKey)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Id", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		err := store.CreateSession(context.Background(), &models.Session{Id: "s1"})

		assert.ErrorIs(t, err, storage.ErrSessionExists)
		mockClient.AssertExpectations(t)
	})
}

func TestListWaitingSessions(t *testing.T) {
	t.Run("Follows Pages Until Limit", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		first, _ := attributevalue.MarshalMap(&models.Session{Id: "s1", ParticipantA: "carol", Status: models.WAITING})
		second, _ := attributevalue.MarshalMap(&models.Session{Id: "s2", ParticipantA: "dave", Status: models.WAITING})
		third, _ := attributevalue.MarshalMap(&models.Session{Id: "s3", ParticipantA: "erin", Status: models.WAITING})
		lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "s1"}}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return aws.ToString(in.IndexName) == "status-order_key-index" && aws.ToBool(in.ScanIndexForward) && in.ExclusiveStartKey == nil
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{first}, LastEvaluatedKey: lastKey}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{second, third}, LastEvaluatedKey: lastKey}, nil).Once()

		sessions, err := store.ListWaitingSessions(context.Background(), "bob", 2)

		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "s1", sessions[0].Id)
		assert.Equal(t, "s2", sessions[1].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Query Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := store.ListWaitingSessions(context.Background(), "bob", 5)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query waiting sessions")
	})
}

func TestListSessionsByParticipant(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := &Store{Client: mockClient, Tables: testTables}

	older := &models.Session{Id: "s1", ParticipantA: "alice", OrderKey: models.OrderKey(time.Unix(1, 0), "s1")}
	newer := &models.Session{Id: "s2", ParticipantA: "bob", ParticipantB: "alice", OrderKey: models.OrderKey(time.Unix(2, 0), "s2")}
	olderAV, _ := attributevalue.MarshalMap(older)
	newerAV, _ := attributevalue.MarshalMap(newer)

	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == "participant_a-index"
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{olderAV}}, nil).Once()
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == "participant_b-index"
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{newerAV}}, nil).Once()

	sessions, err := store.ListSessionsByParticipant(context.Background(), "alice")

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s2", sessions[0].Id)
	assert.Equal(t, "s1", sessions[1].Id)
	mockClient.AssertExpectations(t)
}
