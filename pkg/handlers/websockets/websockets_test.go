package websockets

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsRequest(connectionID string, headers map[string]string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		Headers:        headers,
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{ConnectionID: connectionID},
	}
}

func TestHandleConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := memory.New()
		h := NewHandler(store)

		resp, err := h.HandleConnect(ctx, wsRequest("c1", map[string]string{"x-user-id": "alice"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		conns, err := store.GetConnectionsForUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"c1"}, conns)
	})

	t.Run("Query Parameter", func(t *testing.T) {
		store := memory.New()
		req := wsRequest("c2", nil)
		req.QueryStringParameters = map[string]string{"user_id": "bob"}

		resp, err := NewHandler(store).HandleConnect(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		conns, _ := store.GetConnectionsForUser(ctx, "bob")
		assert.Equal(t, []string{"c2"}, conns)
	})

	t.Run("Missing User", func(t *testing.T) {
		resp, err := NewHandler(memory.New()).HandleConnect(ctx, wsRequest("c3", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHandleDisconnect(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	h := NewHandler(store)

	_, err := h.HandleConnect(ctx, wsRequest("c1", map[string]string{"X-User-Id": "alice"}))
	require.NoError(t, err)

	resp, err := h.HandleDisconnect(ctx, wsRequest("c1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	conns, err := store.GetConnectionsForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, conns)
}
