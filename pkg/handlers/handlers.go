package handlers

import (
	"github.com/elmo3159/Pokeseal-sub000/pkg/api"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/items"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/matching"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/messages"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/requests"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/sessions"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/websockets"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
)

// ApiHandler implements the server interface by composing the per-resource
// handlers.
type ApiHandler struct {
	*matching.MatchingHandler
	*sessions.SessionsHandler
	*requests.RequestsHandler
	*messages.MessagesHandler
	*items.ItemsHandler
	*websockets.FeedHandler
}

// NewApiHandler wires every handler to the trade service.
func NewApiHandler(service trade.API) *ApiHandler {
	return &ApiHandler{
		MatchingHandler: matching.NewMatchingHandler(service),
		SessionsHandler: sessions.NewSessionsHandler(service),
		RequestsHandler: requests.NewRequestsHandler(service),
		MessagesHandler: messages.NewMessagesHandler(service),
		ItemsHandler:    items.NewItemsHandler(service),
		FeedHandler:     websockets.NewFeedHandler(service),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
