package sessions

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

// SessionsHandler holds the dependencies for session-related handlers.
type SessionsHandler struct {
	Service trade.API
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(service trade.API) *SessionsHandler {
	return &SessionsHandler{Service: service}
}

// InviteDirect opens a session with a chosen partner.
func (h *SessionsHandler) InviteDirect(w http.ResponseWriter, r *http.Request) {
	var invitation api.NewInvitation
	if !respond.Decode(w, r, &invitation) {
		return
	}

	session, err := h.Service.InviteDirect(r.Context(), middleware.UserIDFrom(r.Context()), strings.TrimSpace(invitation.PartnerId))
	if err != nil {
		respond.Error(w, r, "invite partner", err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiSession(session))
}

// ListSessions lists the caller's sessions.
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Service.ListSessions(r.Context(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		respond.Error(w, r, "list sessions", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSessions(sessions))
}

// GetSession returns the caller's view of a session.
func (h *SessionsHandler) GetSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	view, err := h.Service.GetSession(r.Context(), sessionId.String(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		respond.Error(w, r, "get session", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSessionView(view))
}

// GetUnreadSummary returns the caller's unread message counts.
func (h *SessionsHandler) GetUnreadSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.UnreadSummary(r.Context(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		respond.Error(w, r, "get unread summary", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiUnreadSummary(summary))
}

// ConfirmSession records the caller's confirmation and settles the trade
// once both sides have confirmed.
func (h *SessionsHandler) ConfirmSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	res, err := h.Service.Confirm(r.Context(), sessionId.String(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		respond.Error(w, r, "confirm session", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiConfirmResult(res))
}

// CancelSession ends a session for both participants.
func (h *SessionsHandler) CancelSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	session, err := h.Service.Cancel(r.Context(), sessionId.String(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		respond.Error(w, r, "cancel session", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSession(session))
}
