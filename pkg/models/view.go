package models

import "time"

// SessionView is a session as seen by one participant. The partner is
// represented by display information only, and only once paired.
type SessionView struct {
	Id               string         `json:"id"`
	Status           SessionStatus  `json:"status"`
	Origin           SessionOrigin  `json:"origin"`
	Version          int64          `json:"version"`
	MySide           Side           `json:"my_side"`
	MyConfirmed      bool           `json:"my_confirmed"`
	PartnerConfirmed bool           `json:"partner_confirmed"`
	Paired           bool           `json:"paired"`
	Partner          *Profile       `json:"partner,omitempty"`
	MyRequests       []TradeRequest `json:"my_requests"`
	PartnerRequests  []TradeRequest `json:"partner_requests"`
	Messages         []TradeMessage `json:"messages"`
	UnreadCount      int            `json:"unread_count"`
	CancelReason     CancelReason   `json:"cancel_reason,omitempty"`
	CancelledByMe    bool           `json:"cancelled_by_me,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

// ApplySession copies the session-level fields of s into the view from
// userID's point of view.
func (v *SessionView) ApplySession(s *Session, userID string) {
	v.Id = s.Id
	v.Status = s.Status
	v.Origin = s.Origin
	v.Version = s.Version
	v.Paired = s.ParticipantB != ""
	if side, ok := s.SideOf(userID); ok {
		v.MySide = side
		v.MyConfirmed = s.ConfirmedOn(side)
		if side == SideA {
			v.PartnerConfirmed = s.ConfirmedB
		} else {
			v.PartnerConfirmed = s.ConfirmedA
		}
	}
	v.CancelReason = s.CancelReason
	v.CancelledByMe = s.CancelledBy != "" && s.CancelledBy == userID
	v.CreatedAt = s.CreatedAt
	v.UpdatedAt = s.UpdatedAt
	v.CompletedAt = s.CompletedAt
}
