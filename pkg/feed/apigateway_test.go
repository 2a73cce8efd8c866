package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/elmo3159/Pokeseal-sub000/pkg/feed/mocks"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func connectionID(id string) interface{} {
	return mock.MatchedBy(func(in *apigatewaymanagementapi.PostToConnectionInput) bool {
		return aws.ToString(in.ConnectionId) == id
	})
}

func TestAPIGatewayPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("Posts To Audience And Removes Stale Connections", func(t *testing.T) {
		store := memory.New()
		require.NoError(t, store.AddConnection(ctx, "c-alice", "alice"))
		require.NoError(t, store.AddConnection(ctx, "c-bob", "bob"))
		require.NoError(t, store.AddConnection(ctx, "c-carol", "carol"))

		mockClient := new(mocks.PostToConnectionAPI)
		mockClient.On("PostToConnection", mock.Anything, connectionID("c-alice")).Return(&apigatewaymanagementapi.PostToConnectionOutput{}, nil).Once()
		mockClient.On("PostToConnection", mock.Anything, connectionID("c-bob")).Return(nil, &apigwtypes.GoneException{}).Once()

		publisher := NewAPIGatewayPublisher(store, mockClient, 0)
		evt := NewSessionEvent(&models.Session{Id: "s1"})
		evt.Audience = []string{"alice", "bob"}

		err := publisher.Publish(ctx, evt)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
		remaining, _ := store.GetConnectionsForUser(ctx, "bob")
		assert.Empty(t, remaining)
		carol, _ := store.GetConnectionsForUser(ctx, "carol")
		assert.Equal(t, []string{"c-carol"}, carol)
	})

	t.Run("Post Failure Is Logged", func(t *testing.T) {
		store := memory.New()
		require.NoError(t, store.AddConnection(ctx, "c-alice", "alice"))

		mockClient := new(mocks.PostToConnectionAPI)
		mockClient.On("PostToConnection", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		publisher := NewAPIGatewayPublisher(store, mockClient, 100)

		err := publisher.SendToUser(ctx, "alice", []byte(`{}`))

		assert.NoError(t, err)
		remaining, _ := store.GetConnectionsForUser(ctx, "alice")
		assert.Equal(t, []string{"c-alice"}, remaining)
	})
}
