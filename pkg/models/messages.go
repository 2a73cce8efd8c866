package models

import "time"

// MessageType defines the kinds of conversation entries.
type MessageType string

const (
	STAMP  MessageType = "STAMP"
	TEXT   MessageType = "TEXT"
	SYSTEM MessageType = "SYSTEM"
)

// MaxTextLength bounds free text messages, counted in runes.
const MaxTextLength = 500

// System message contents.
const (
	SystemConfirmed = "confirmed"
	SystemCompleted = "trade_completed"
	SystemCancelled = "cancelled"

	systemItemUnavailable = "item_unavailable:"
)

// ItemUnavailableMessage is the system message posted for a request that
// settlement skipped because its item was no longer available.
func ItemUnavailableMessage(itemID string) string {
	return systemItemUnavailable + itemID
}

// Stamps is the preset stamp catalogue keyed by stamp id.
var Stamps = map[string]string{
	"please":   "Please!",
	"thinking": "Let me think...",
	"addMore":  "Could you add more?",
	"ok":       "OK!",
	"thanks":   "Thanks!",
	"cute":     "So cute!",
	"no":       "Sorry, no",
	"wait":     "Wait a moment",
	"this":     "I want this one!",
	"rare":     "That one's rare!",
	"instead":  "How about this instead?",
	"great":    "Great trade!",
}

// IsStamp reports whether key names a preset stamp.
func IsStamp(key string) bool {
	_, ok := Stamps[key]
	return ok
}

// TradeMessage is an append-only conversation entry. Ids are ULIDs, so
// lexical order follows creation order.
type TradeMessage struct {
	Id        string      `json:"id" dynamodbav:"id"`
	SessionId string      `json:"session_id" dynamodbav:"session_id"`
	SenderId  string      `json:"sender_id" dynamodbav:"sender_id"`
	Type      MessageType `json:"type" dynamodbav:"type"`
	Content   string      `json:"content" dynamodbav:"content"`
	CreatedAt time.Time   `json:"created_at" dynamodbav:"created_at"`
}

// ReadMarker records the newest message a participant has seen.
type ReadMarker struct {
	SessionId  string    `json:"session_id" dynamodbav:"session_id"`
	UserId     string    `json:"user_id" dynamodbav:"user_id"`
	LastReadId string    `json:"last_read_id" dynamodbav:"last_read_id"`
	UpdatedAt  time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// CountUnread counts the messages after lastReadID that userID did not send.
func CountUnread(messages []TradeMessage, userID, lastReadID string) int {
	n := 0
	for _, msg := range messages {
		if msg.SenderId != userID && msg.Id > lastReadID {
			n++
		}
	}
	return n
}

// UnreadSummary is a user's unread message count across active sessions.
type UnreadSummary struct {
	Total    int            `json:"total"`
	Sessions map[string]int `json:"sessions"`
}

// Notification is delivered to a user through the notification sink.
type Notification struct {
	UserId    string           `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	SessionId string           `json:"session_id"`
	ActorId   string           `json:"actor_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type NotificationKind string

const (
	NotifyMatched          NotificationKind = "MATCHED"
	NotifyInvited          NotificationKind = "INVITED"
	NotifyPartnerConfirmed NotificationKind = "PARTNER_CONFIRMED"
	NotifyCompleted        NotificationKind = "COMPLETED"
	NotifyCancelled        NotificationKind = "CANCELLED"
	NotifyMessage          NotificationKind = "MESSAGE"
)
