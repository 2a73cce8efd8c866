package requests

import (
	"net/http"
	"strings"

	"github.com/elmo3159/Pokeseal-sub000/pkg/api"
	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/respond"
	"github.com/elmo3159/Pokeseal-sub000/pkg/mapping"
	"github.com/elmo3159/Pokeseal-sub000/pkg/middleware"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// RequestsHandler holds the dependencies for the request ledger handlers.
type RequestsHandler struct {
	Service trade.API
}

// NewRequestsHandler creates a new RequestsHandler.
func NewRequestsHandler(service trade.API) *RequestsHandler {
	return &RequestsHandler{Service: service}
}

// AddRequest asks for one of the partner's items.
func (h *RequestsHandler) AddRequest(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	var newReq api.NewRequest
	if !respond.Decode(w, r, &newReq) {
		return
	}
	itemID := strings.TrimSpace(newReq.ItemId)
	if itemID == "" {
		respond.JSON(w, http.StatusBadRequest, api.Error{Message: "item_id is required"})
		return
	}

	req, err := h.Service.AddRequest(r.Context(), sessionId.String(), middleware.UserIDFrom(r.Context()), itemID)
	if err != nil {
		respond.Error(w, r, "add request", err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiTradeRequest(req))
}

// RemoveRequest withdraws a request. Removing an absent request succeeds.
func (h *RequestsHandler) RemoveRequest(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID, itemId string) {
	if err := h.Service.RemoveRequest(r.Context(), sessionId.String(), middleware.UserIDFrom(r.Context()), itemId); err != nil {
		respond.Error(w, r, "remove request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
