package mapping

import (
	"github.com/elmo3159/Pokeseal-sub000/pkg/api"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
)

// ToApiSession converts a domain Session to an API Session. Participant ids
// are left out; callers learn about their partner through the session view.
func ToApiSession(s *models.Session) api.Session {
	return api.Session{
		Id:           s.Id,
		Origin:       string(s.Origin),
		Status:       api.SessionStatus(s.Status),
		Paired:       s.ParticipantB != "",
		ConfirmedA:   s.ConfirmedA,
		ConfirmedB:   s.ConfirmedB,
		Version:      s.Version,
		CancelReason: optional(string(s.CancelReason)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		CompletedAt:  s.CompletedAt,
	}
}

func ToApiSessions(sessions []models.Session) []api.Session {
	out := make([]api.Session, len(sessions))
	for i := range sessions {
		out[i] = ToApiSession(&sessions[i])
	}
	return out
}

func ToApiMatchResult(res *models.MatchResult) api.MatchResult {
	return api.MatchResult{Matched: res.Matched, Session: ToApiSession(res.Session)}
}

func ToApiTradeRequest(req *models.TradeRequest) api.TradeRequest {
	return api.TradeRequest{
		Id:           req.Id,
		RequesterId:  req.RequesterId,
		TargetItemId: req.TargetItemId,
		CreatedAt:    req.CreatedAt,
	}
}

func ToApiTradeMessage(msg *models.TradeMessage) api.TradeMessage {
	return api.TradeMessage{
		Id:        msg.Id,
		SenderId:  msg.SenderId,
		Type:      api.MessageType(msg.Type),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

// ToApiSessionView converts a participant's view. Slices are never nil so
// clients always receive arrays.
func ToApiSessionView(v *models.SessionView) api.SessionView {
	out := api.SessionView{
		Id:               v.Id,
		Status:           api.SessionStatus(v.Status),
		Origin:           string(v.Origin),
		Version:          v.Version,
		MySide:           string(v.MySide),
		MyConfirmed:      v.MyConfirmed,
		PartnerConfirmed: v.PartnerConfirmed,
		Paired:           v.Paired,
		MyRequests:       make([]api.TradeRequest, len(v.MyRequests)),
		PartnerRequests:  make([]api.TradeRequest, len(v.PartnerRequests)),
		Messages:         make([]api.TradeMessage, len(v.Messages)),
		UnreadCount:      v.UnreadCount,
		CancelReason:     optional(string(v.CancelReason)),
		CancelledByMe:    v.CancelledByMe,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
		CompletedAt:      v.CompletedAt,
	}
	if v.Partner != nil {
		out.Partner = &api.Profile{Name: v.Partner.Name, Avatar: optional(v.Partner.Avatar)}
	}
	for i := range v.MyRequests {
		out.MyRequests[i] = ToApiTradeRequest(&v.MyRequests[i])
	}
	for i := range v.PartnerRequests {
		out.PartnerRequests[i] = ToApiTradeRequest(&v.PartnerRequests[i])
	}
	for i := range v.Messages {
		out.Messages[i] = ToApiTradeMessage(&v.Messages[i])
	}
	return out
}

func ToApiUnreadSummary(u *models.UnreadSummary) api.UnreadSummary {
	out := api.UnreadSummary{Total: u.Total, Sessions: map[string]int{}}
	for id, n := range u.Sessions {
		out.Sessions[id] = n
	}
	return out
}

func ToApiConfirmResult(res *models.ConfirmResult) api.ConfirmResult {
	out := api.ConfirmResult{
		Session:   ToApiSession(res.Session),
		Changed:   res.Changed,
		Completed: res.Completed,
		Transfers: make([]api.Transfer, len(res.Transfers)),
		Skipped:   make([]string, len(res.Skipped)),
	}
	for i, t := range res.Transfers {
		out.Transfers[i] = api.Transfer{
			EntryId:    t.EntryId,
			ItemId:     t.ItemId,
			FromUserId: t.FromUserId,
			ToUserId:   t.ToUserId,
			Timestamp:  t.Timestamp,
		}
	}
	for i, req := range res.Skipped {
		out.Skipped[i] = req.TargetItemId
	}
	return out
}

func ToApiItems(items []models.Item) []api.Item {
	out := make([]api.Item, len(items))
	for i, item := range items {
		out[i] = api.Item{Id: item.Id, StickerId: item.StickerId, Placement: optional(item.Placement)}
	}
	return out
}

// ToDomainMessageType converts an API message type. Clients may only post
// stamps and text, so SYSTEM is mapped to an unknown type and rejected by
// the service.
func ToDomainMessageType(t api.MessageType) models.MessageType {
	if t == api.MessageTypeSYSTEM {
		return models.MessageType("")
	}
	return models.MessageType(t)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToDomainSession converts an API Session. Participant ids are not part of
// the wire format and stay empty.
func ToDomainSession(s *api.Session) *models.Session {
	return &models.Session{
		Id:           s.Id,
		Origin:       models.SessionOrigin(s.Origin),
		Status:       models.SessionStatus(s.Status),
		ConfirmedA:   s.ConfirmedA,
		ConfirmedB:   s.ConfirmedB,
		Version:      s.Version,
		CancelReason: models.CancelReason(deref(s.CancelReason)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		CompletedAt:  s.CompletedAt,
	}
}

func ToDomainTradeRequest(sessionID string, req *api.TradeRequest) *models.TradeRequest {
	return &models.TradeRequest{
		Id:           req.Id,
		SessionId:    sessionID,
		RequestKey:   models.RequestKey(req.RequesterId, req.TargetItemId),
		RequesterId:  req.RequesterId,
		TargetItemId: req.TargetItemId,
		CreatedAt:    req.CreatedAt,
	}
}

func ToDomainTradeMessage(sessionID string, msg *api.TradeMessage) *models.TradeMessage {
	return &models.TradeMessage{
		Id:        msg.Id,
		SessionId: sessionID,
		SenderId:  msg.SenderId,
		Type:      models.MessageType(msg.Type),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func ToDomainSessionView(v *api.SessionView) *models.SessionView {
	out := &models.SessionView{
		Id:               v.Id,
		Status:           models.SessionStatus(v.Status),
		Origin:           models.SessionOrigin(v.Origin),
		Version:          v.Version,
		MySide:           models.Side(v.MySide),
		MyConfirmed:      v.MyConfirmed,
		PartnerConfirmed: v.PartnerConfirmed,
		Paired:           v.Paired,
		MyRequests:       make([]models.TradeRequest, len(v.MyRequests)),
		PartnerRequests:  make([]models.TradeRequest, len(v.PartnerRequests)),
		Messages:         make([]models.TradeMessage, len(v.Messages)),
		UnreadCount:      v.UnreadCount,
		CancelReason:     models.CancelReason(deref(v.CancelReason)),
		CancelledByMe:    v.CancelledByMe,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
		CompletedAt:      v.CompletedAt,
	}
	if v.Partner != nil {
		out.Partner = &models.Profile{Name: v.Partner.Name, Avatar: deref(v.Partner.Avatar)}
	}
	for i := range v.MyRequests {
		out.MyRequests[i] = *ToDomainTradeRequest(v.Id, &v.MyRequests[i])
	}
	for i := range v.PartnerRequests {
		out.PartnerRequests[i] = *ToDomainTradeRequest(v.Id, &v.PartnerRequests[i])
	}
	for i := range v.Messages {
		out.Messages[i] = *ToDomainTradeMessage(v.Id, &v.Messages[i])
	}
	return out
}

// ToDomainConfirmResult converts a confirmation outcome. Skipped requests
// only carry their item id.
func ToDomainConfirmResult(res *api.ConfirmResult) *models.ConfirmResult {
	out := &models.ConfirmResult{
		Session:   ToDomainSession(&res.Session),
		Confirmed: true,
		Changed:   res.Changed,
		Completed: res.Completed,
	}
	for _, t := range res.Transfers {
		out.Transfers = append(out.Transfers, models.Transfer{
			EntryId:    t.EntryId,
			SessionId:  res.Session.Id,
			ItemId:     t.ItemId,
			FromUserId: t.FromUserId,
			ToUserId:   t.ToUserId,
			Timestamp:  t.Timestamp,
		})
	}
	for _, itemID := range res.Skipped {
		out.Skipped = append(out.Skipped, models.TradeRequest{SessionId: res.Session.Id, TargetItemId: itemID})
	}
	return out
}

func ToDomainItems(items []api.Item, ownerID string) []models.Item {
	out := make([]models.Item, len(items))
	for i, item := range items {
		out[i] = models.Item{Id: item.Id, OwnerId: ownerID, StickerId: item.StickerId, Placement: deref(item.Placement)}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
