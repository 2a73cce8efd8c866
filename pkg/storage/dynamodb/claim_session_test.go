package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testTables = Tables{
	Sessions:    "sessions",
	Requests:    "requests",
	Messages:    "messages",
	Items:       "items",
	Profiles:    "profiles",
	Transfers:   "transfers",
	Connections: "connections",
	Reads:       "reads",
}

func TestClaimSession(t *testing.T) {
	claimed := &models.Session{Id: "s1", ParticipantA: "alice", ParticipantB: "bob", Status: models.NEGOTIATING, Version: 1}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		av, _ := attributevalue.MarshalMap(claimed)
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return aws.ToString(in.TableName) == "sessions" &&
				aws.ToString(in.ConditionExpression) == "#status = :waiting AND attribute_not_exists(participant_b) AND participant_a <> :user" &&
				in.ExpressionAttributeValues[":user"].(*types.AttributeValueMemberS).Value == "bob"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: av}, nil).Once()

		session, err := store.ClaimSession(context.Background(), "s1", "bob")

		assert.NoError(t, err)
		assert.Equal(t, "bob", session.ParticipantB)
		assert.Equal(t, models.NEGOTIATING, session.Status)
		mockClient.AssertExpectations(t)
	})

	t.Run("Claim Lost", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("UpdateItem", mock.Anything, mock.AnythingOfType("*dynamodb.UpdateItemInput")).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		session, err := store.ClaimSession(context.Background(), "s1", "bob")

		assert.ErrorIs(t, err, storage.ErrClaimLost)
		assert.Nil(t, session)
		mockClient.AssertExpectations(t)
	})

	t.Run("Update Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		_, err := store.ClaimSession(context.Background(), "s1", "bob")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrClaimLost)
		assert.Contains(t, err.Error(), "failed to claim session")
		mockClient.AssertExpectations(t)
	})
}

func TestCancelSession(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		cancelled := &models.Session{Id: "s1", ParticipantA: "alice", Status: models.CANCELLED, CancelledBy: "alice", CancelReason: models.CancelReasonUser}
		av, _ := attributevalue.MarshalMap(cancelled)
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value == "WAITING"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: av}, nil).Once()

		session, err := store.CancelSession(context.Background(), "s1", models.WAITING, "alice", models.CancelReasonUser)

		assert.NoError(t, err)
		assert.Equal(t, models.CANCELLED, session.Status)
		mockClient.AssertExpectations(t)
	})

	t.Run("Status Moved On", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		_, err := store.CancelSession(context.Background(), "s1", models.NEGOTIATING, "alice", models.CancelReasonUser)

		assert.ErrorIs(t, err, storage.ErrSessionConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Terminal Expected Status", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		_, err := store.CancelSession(context.Background(), "s1", models.COMPLETED, "alice", models.CancelReasonUser)

		assert.ErrorIs(t, err, storage.ErrSessionConflict)
		mockClient.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
	})
}

func TestSetConfirmation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		confirmed := &models.Session{Id: "s1", Status: models.NEGOTIATING, ConfirmedB: true, Version: 2}
		av, _ := attributevalue.MarshalMap(confirmed)
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return in.ExpressionAttributeNames["#flag"] == "confirmed_b"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: av}, nil).Once()

		session, err := store.SetConfirmation(context.Background(), "s1", models.SideB)

		assert.NoError(t, err)
		assert.True(t, session.ConfirmedB)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Confirmed", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		_, err := store.SetConfirmation(context.Background(), "s1", models.SideA)

		assert.ErrorIs(t, err, storage.ErrSessionConflict)
		mockClient.AssertExpectations(t)
	})
}

func TestClaimAndWithdraw(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 2 {
				return false
			}
			claim, withdraw := in.TransactItems[0].Update, in.TransactItems[1].Update
			return claim != nil && withdraw != nil &&
				claim.Key["id"].(*types.AttributeValueMemberS).Value == "s1" &&
				withdraw.Key["id"].(*types.AttributeValueMemberS).Value == "own" &&
				withdraw.ExpressionAttributeValues[":reason"].(*types.AttributeValueMemberS).Value == string(models.CancelReasonSuperseded)
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		av, _ := attributevalue.MarshalMap(&models.Session{Id: "s1", ParticipantA: "alice", ParticipantB: "bob", Status: models.NEGOTIATING})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: av}, nil).Once()

		session, err := store.ClaimAndWithdraw(context.Background(), "s1", "own", "bob")

		assert.NoError(t, err)
		assert.Equal(t, "bob", session.ParticipantB)
		mockClient.AssertExpectations(t)
	})

	t.Run("Own Session Claimed", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelledTransaction("ConditionalCheckFailed", "ConditionalCheckFailed")).Once()

		_, err := store.ClaimAndWithdraw(context.Background(), "s1", "own", "bob")

		assert.ErrorIs(t, err, storage.ErrSessionConflict)
	})

	t.Run("Claim Lost", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelledTransaction("ConditionalCheckFailed", "None")).Once()

		_, err := store.ClaimAndWithdraw(context.Background(), "s1", "own", "bob")

		assert.ErrorIs(t, err, storage.ErrClaimLost)
	})

	t.Run("Transaction Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, Tables: testTables}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelledTransaction("TransactionConflict", "None")).Once()

		_, err := store.ClaimAndWithdraw(context.Background(), "s1", "own", "bob")

		assert.ErrorIs(t, err, storage.ErrClaimLost)
	})
}
