package messages

import (
	"net/http"

	"github.com/elmo3159/Pokeseal-sub000/pkg/api"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/respond"
	"github.com/elmo3159/Pokeseal-sub000/pkg/mapping"
	"github.com/elmo3159/Pokeseal-sub000/pkg/middleware"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// MessagesHandler holds the dependencies for the conversation handlers.
type MessagesHandler struct {
	Service trade.API
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(service trade.API) *MessagesHandler {
	return &MessagesHandler{Service: service}
}

// SendMessage posts a stamp or a text message to the session.
func (h *MessagesHandler) SendMessage(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	var newMsg api.NewMessage
	if !respond.Decode(w, r, &newMsg) {
		return
	}

	msg, err := h.Service.SendMessage(r.Context(), sessionId.String(), middleware.UserIDFrom(r.Context()),
		mapping.ToDomainMessageType(newMsg.Type), newMsg.Content)
	if err != nil {
		respond.Error(w, r, "send message", err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiTradeMessage(msg))
}
