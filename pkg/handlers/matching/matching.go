package matching

import (
	"net/http"

	"github.com/elmo3159/Pokeseal-sub000/pkg/handlers/respond"
	"github.com/elmo3159/Pokeseal-sub000/pkg/mapping"
	"github.com/elmo3159/Pokeseal-sub000/pkg/middleware"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// MatchingHandler holds the dependencies for the random matching endpoints.
type MatchingHandler struct {
	Service trade.API
}

// NewMatchingHandler creates a new MatchingHandler.
func NewMatchingHandler(service trade.API) *MatchingHandler {
	return &MatchingHandler{Service: service}
}

// StartMatching pairs the caller with the oldest waiting user, or parks the
// caller in the waiting pool. A pairing answers 200, a waiting session 202.
func (h *MatchingHandler) StartMatching(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.StartMatching(r.Context(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		respond.Error(w, r, "start matching", err)
		return
	}

	status := http.StatusAccepted
	if res.Matched {
		status = http.StatusOK
	}
	respond.JSON(w, status, mapping.ToApiMatchResult(res))
}

// CancelMatching withdraws the caller's waiting session.
func (h *MatchingHandler) CancelMatching(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	session, err := h.Service.CancelMatching(r.Context(), sessionId.String(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		respond.Error(w, r, "cancel matching", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSession(session))
}
