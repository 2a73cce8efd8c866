package websockets

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/respond"
	"github.com/elmo3159/Pokeseal-sub000/pkg/middleware"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
	"github.com/gorilla/websocket"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CloseResync is sent when the server drops a subscriber that fell behind.
// The client should reload the session and subscribe again.
const CloseResync = 4000

const writeWait = 10 * time.Second

// Handler handles API Gateway websocket connections.
type Handler struct {
	connections storage.ConnectionStore
}

// NewHandler creates a new Handler.
func NewHandler(connections storage.ConnectionStore) *Handler {
	return &Handler{connections: connections}
}

func userOf(request events.APIGatewayWebsocketProxyRequest) string {
	for k, v := range request.Headers {
		if strings.EqualFold(k, middleware.UserIDHeader) {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(request.QueryStringParameters["user_id"])
}

// HandleConnect registers a new connection for the calling user.
func (h *Handler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	userID := userOf(request)
	if userID == "" {
		slog.Warn("rejecting connection without user", "connectionId", connectionID)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized}, nil
	}

	slog.Info("Client connected", "connectionId", connectionID, "userId", userID)
	if err := h.connections.AddConnection(ctx, connectionID, userID); err != nil {
		slog.Error("failed to save connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDisconnect handles client disconnections.
func (h *Handler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Info("Client disconnected", "connectionId", request.RequestContext.ConnectionID)

	if err := h.connections.RemoveConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		slog.Error("failed to delete connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDefault handles messages sent from a client. The feed is one-way.
func (h *Handler) HandleDefault(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Debug("ignoring client message", "connectionId", request.RequestContext.ConnectionID)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// FeedHandler streams a session's change feed over a websocket.
type FeedHandler struct {
	Service  trade.API
	Upgrader websocket.Upgrader
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(service trade.API) *FeedHandler {
	return &FeedHandler{
		Service: service,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Identity comes from the gateway header, not cookies.
				return true
			},
		},
	}
}

// SubscribeFeed authorises the caller before upgrading, so refusals are
// plain HTTP errors.
func (h *FeedHandler) SubscribeFeed(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	userID := middleware.UserIDFrom(r.Context())
	sub, err := h.Service.Subscribe(r.Context(), sessionId.String(), userID)
	if err != nil {
		respond.Error(w, r, "subscribe to session", err)
		return
	}
	defer sub.Close()

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("feed subscriber connected", "sessionId", sub.SessionID, "userId", userID)

	// Reading is required to notice the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Error("unexpected close error", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			slog.Info("feed subscriber disconnected", "sessionId", sub.SessionID, "userId", userID)
			return
		case evt, ok := <-sub.Events():
			if !ok {
				msg := websocket.FormatCloseMessage(CloseResync, "resync")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				slog.Error("failed to write feed event", "sessionId", sub.SessionID, "error", err)
				return
			}
		}
	}
}
