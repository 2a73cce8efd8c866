package items

import (
	"net/http"

	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/respond"
	"github.com/elmo3159/Pokeseal-sub000/pkg/mapping"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
)

// ItemsHandler serves the collection lookups used to pick requests.
type ItemsHandler struct {
	Service trade.API
}

// NewItemsHandler creates a new ItemsHandler.
func NewItemsHandler(service trade.API) *ItemsHandler {
	return &ItemsHandler{Service: service}
}

// GetOwnedItems lists the items a user currently owns.
func (h *ItemsHandler) GetOwnedItems(w http.ResponseWriter, r *http.Request, userId string) {
	items, err := h.Service.GetOwnedItems(r.Context(), userId)
	if err != nil {
		respond.Error(w, r, "get owned items", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiItems(items))
}
