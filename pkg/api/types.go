// Package api defines the HTTP contract of the trade service: the wire
// types and the chi routing of the server interface.
package api

import (
	"time"
)

// SessionStatus defines model for SessionStatus.
type SessionStatus string

const (
	SessionStatusWAITING     SessionStatus = "WAITING"
	SessionStatusNEGOTIATING SessionStatus = "NEGOTIATING"
	SessionStatusCOMPLETED   SessionStatus = "COMPLETED"
	SessionStatusCANCELLED   SessionStatus = "CANCELLED"
)

// MessageType defines model for MessageType.
type MessageType string

const (
	MessageTypeSTAMP  MessageType = "STAMP"
	MessageTypeTEXT   MessageType = "TEXT"
	MessageTypeSYSTEM MessageType = "SYSTEM"
)

// Session defines model for Session.
type Session struct {
	Id           string        `json:"id"`
	Origin       string        `json:"origin"`
	Status       SessionStatus `json:"status"`
	Paired       bool          `json:"paired"`
	ConfirmedA   bool          `json:"confirmed_a"`
	ConfirmedB   bool          `json:"confirmed_b"`
	Version      int64         `json:"version"`
	CancelReason *string       `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// MatchResult defines model for MatchResult.
type MatchResult struct {
	Matched bool    `json:"matched"`
	Session Session `json:"session"`
}

// Profile defines model for Profile.
type Profile struct {
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// TradeRequest defines model for TradeRequest.
type TradeRequest struct {
	Id           string    `json:"id"`
	RequesterId  string    `json:"requester_id"`
	TargetItemId string    `json:"target_item_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TradeMessage defines model for TradeMessage.
type TradeMessage struct {
	Id        string      `json:"id"`
	SenderId  string      `json:"sender_id"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// SessionView defines model for SessionView.
type SessionView struct {
	Id               string         `json:"id"`
	Status           SessionStatus  `json:"status"`
	Origin           string         `json:"origin"`
	Version          int64          `json:"version"`
	MySide           string         `json:"my_side"`
	MyConfirmed      bool           `json:"my_confirmed"`
	PartnerConfirmed bool           `json:"partner_confirmed"`
	Paired           bool           `json:"paired"`
	Partner          *Profile       `json:"partner,omitempty"`
	MyRequests       []TradeRequest `json:"my_requests"`
	PartnerRequests  []TradeRequest `json:"partner_requests"`
	Messages         []TradeMessage `json:"messages"`
	UnreadCount      int            `json:"unread_count"`
	CancelReason     *string        `json:"cancel_reason,omitempty"`
	CancelledByMe    bool           `json:"cancelled_by_me"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

// UnreadSummary defines model for UnreadSummary.
type UnreadSummary struct {
	Total    int            `json:"total"`
	Sessions map[string]int `json:"sessions"`
}

// Transfer defines model for Transfer.
type Transfer struct {
	EntryId    string    `json:"entry_id"`
	ItemId     string    `json:"item_id"`
	FromUserId string    `json:"from_user_id"`
	ToUserId   string    `json:"to_user_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ConfirmResult defines model for ConfirmResult.
type ConfirmResult struct {
	Session   Session    `json:"session"`
	Changed   bool       `json:"changed"`
	Completed bool       `json:"completed"`
	Transfers []Transfer `json:"transfers"`
	Skipped   []string   `json:"skipped_item_ids"`
}

// Item defines model for Item.
type Item struct {
	Id        string  `json:"id"`
	StickerId string  `json:"sticker_id"`
	Placement *string `json:"placement,omitempty"`
}

// NewInvitation defines model for NewInvitation.
type NewInvitation struct {
	PartnerId string `json:"partner_id"`
}

// NewRequest defines model for NewRequest.
type NewRequest struct {
	ItemId string `json:"item_id"`
}

// NewMessage defines model for NewMessage.
type NewMessage struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
}

// Error defines model for Error.
type Error struct {
	Message string `json:"message"`
}
