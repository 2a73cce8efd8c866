package models

import (
	"fmt"
	"time"
)

// SessionStatus defines the possible states of a trade session.
type SessionStatus string

const (
	WAITING     SessionStatus = "WAITING"
	NEGOTIATING SessionStatus = "NEGOTIATING"
	COMPLETED   SessionStatus = "COMPLETED"
	CANCELLED   SessionStatus = "CANCELLED"
)

// SessionOrigin records how a session was opened.
type SessionOrigin string

const (
	RANDOM SessionOrigin = "RANDOM"
	INVITE SessionOrigin = "INVITE"
)

// CancelReason explains why a session ended without completing.
type CancelReason string

const (
	CancelReasonUser       CancelReason = "USER"
	CancelReasonSuperseded CancelReason = "SUPERSEDED"
	CancelReasonExpired    CancelReason = "EXPIRED"
)

// Side identifies a participant slot in a session.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Session represents the internal domain model for a trade session.
// ParticipantB stays empty until the session is paired; the attribute is
// omitted from the item so conditional writes can use attribute_not_exists.
type Session struct {
	Id           string        `json:"id" dynamodbav:"id"`
	ParticipantA string        `json:"participant_a" dynamodbav:"participant_a"`
	ParticipantB string        `json:"participant_b,omitempty" dynamodbav:"participant_b,omitempty"`
	Origin       SessionOrigin `json:"origin" dynamodbav:"origin"`
	Status       SessionStatus `json:"status" dynamodbav:"status"`
	ConfirmedA   bool          `json:"confirmed_a" dynamodbav:"confirmed_a"`
	ConfirmedB   bool          `json:"confirmed_b" dynamodbav:"confirmed_b"`
	Version      int64         `json:"version" dynamodbav:"version"`
	OrderKey     string        `json:"-" dynamodbav:"order_key"`
	RequestCount int           `json:"-" dynamodbav:"request_count"`
	CreatedAt    time.Time     `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" dynamodbav:"updated_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty" dynamodbav:"completed_at,omitempty"`
	CancelledBy  string        `json:"cancelled_by,omitempty" dynamodbav:"cancelled_by,omitempty"`
	CancelReason CancelReason  `json:"cancel_reason,omitempty" dynamodbav:"cancel_reason,omitempty"`
}

// OrderKey builds the sortable key that totally orders waiting sessions by
// creation time, breaking ties by id.
func OrderKey(createdAt time.Time, id string) string {
	return fmt.Sprintf("%020d#%s", createdAt.UnixNano(), id)
}

// IsParticipant reports whether userID occupies either slot.
func (s *Session) IsParticipant(userID string) bool {
	return userID != "" && (s.ParticipantA == userID || s.ParticipantB == userID)
}

// SideOf returns the slot held by userID.
func (s *Session) SideOf(userID string) (Side, bool) {
	switch {
	case userID == "":
		return "", false
	case s.ParticipantA == userID:
		return SideA, true
	case s.ParticipantB == userID:
		return SideB, true
	}
	return "", false
}

// Partner returns the other participant, or an empty string before pairing.
func (s *Session) Partner(userID string) string {
	switch userID {
	case s.ParticipantA:
		return s.ParticipantB
	case s.ParticipantB:
		return s.ParticipantA
	}
	return ""
}

// Participants lists the occupied slots.
func (s *Session) Participants() []string {
	if s.ParticipantB == "" {
		return []string{s.ParticipantA}
	}
	return []string{s.ParticipantA, s.ParticipantB}
}

// HasConfirmed reports the confirmation flag of userID's side.
func (s *Session) HasConfirmed(userID string) bool {
	side, ok := s.SideOf(userID)
	if !ok {
		return false
	}
	return s.ConfirmedOn(side)
}

// ConfirmedOn reports the confirmation flag of a side.
func (s *Session) ConfirmedOn(side Side) bool {
	if side == SideA {
		return s.ConfirmedA
	}
	return s.ConfirmedB
}

func (s *Session) BothConfirmed() bool {
	return s.ConfirmedA && s.ConfirmedB
}

func (s *Session) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// TradeRequest is one entry in a session's request ledger: the requester
// wants TargetItemId, which the other participant owns.
type TradeRequest struct {
	Id           string    `json:"id" dynamodbav:"id"`
	SessionId    string    `json:"session_id" dynamodbav:"session_id"`
	RequestKey   string    `json:"-" dynamodbav:"request_key"`
	RequesterId  string    `json:"requester_id" dynamodbav:"requester_id"`
	TargetItemId string    `json:"target_item_id" dynamodbav:"target_item_id"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}

// RequestKey is the ledger uniqueness key within a session.
func RequestKey(requesterID, itemID string) string {
	return requesterID + "#" + itemID
}

// Item is a collected sticker as seen by the ownership store.
type Item struct {
	Id        string    `json:"id" dynamodbav:"id"`
	OwnerId   string    `json:"owner_id" dynamodbav:"owner_id"`
	StickerId string    `json:"sticker_id" dynamodbav:"sticker_id"`
	Placement string    `json:"placement,omitempty" dynamodbav:"placement,omitempty"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Transfer records one item changing hands as part of a completed session.
type Transfer struct {
	EntryId    string    `json:"entry_id" dynamodbav:"entry_id"`
	SessionId  string    `json:"session_id" dynamodbav:"session_id"`
	RequestId  string    `json:"request_id" dynamodbav:"request_id"`
	ItemId     string    `json:"item_id" dynamodbav:"item_id"`
	FromUserId string    `json:"from_user_id" dynamodbav:"from_user_id"`
	ToUserId   string    `json:"to_user_id" dynamodbav:"to_user_id"`
	Timestamp  time.Time `json:"timestamp" dynamodbav:"timestamp"`
}

// Settlement is the plan executed when a session completes.
type Settlement struct {
	Transfers []Transfer
	Skipped   []TradeRequest
}

// Profile is presentation-only identity information.
type Profile struct {
	UserId string `json:"user_id" dynamodbav:"user_id"`
	Name   string `json:"name" dynamodbav:"name"`
	Avatar string `json:"avatar,omitempty" dynamodbav:"avatar,omitempty"`
}

// Connection maps a websocket connection to the user that opened it.
type Connection struct {
	ConnectionId string    `json:"connection_id" dynamodbav:"connection_id"`
	UserId       string    `json:"user_id" dynamodbav:"user_id"`
	ConnectedAt  time.Time `json:"connected_at" dynamodbav:"connected_at"`
}

// MatchResult is returned by StartMatching. Matched is false while the
// caller's session is still waiting for a partner.
type MatchResult struct {
	Session *Session `json:"session"`
	Matched bool     `json:"matched"`
}

// ConfirmResult describes the outcome of a confirmation.
type ConfirmResult struct {
	Session   *Session       `json:"session"`
	Confirmed bool           `json:"confirmed"`
	Changed   bool           `json:"changed"`
	Completed bool           `json:"completed"`
	Transfers []Transfer     `json:"transfers,omitempty"`
	Skipped   []TradeRequest `json:"skipped,omitempty"`
}
