package trade

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/oklog/ulid/v2"
)

func validateMessage(msgType models.MessageType, content string) error {
	switch msgType {
	case models.STAMP:
		if !models.IsStamp(content) {
			return fmt.Errorf("%w: unknown stamp %q", ErrInvalidMessage, content)
		}
	case models.TEXT:
		if strings.TrimSpace(content) == "" {
			return fmt.Errorf("%w: empty text", ErrInvalidMessage)
		}
		if utf8.RuneCountInString(content) > models.MaxTextLength {
			return fmt.Errorf("%w: text longer than %d characters", ErrInvalidMessage, models.MaxTextLength)
		}
	default:
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidMessage, msgType)
	}
	return nil
}

// SendMessage appends a stamp or text message to the session conversation.
func (s *Service) SendMessage(ctx context.Context, sessionID, userID string, msgType models.MessageType, content string) (*models.TradeMessage, error) {
	if err := validateMessage(msgType, content); err != nil {
		return nil, err
	}
	session, _, err := s.participantSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := requireNegotiating(session); err != nil {
		return nil, err
	}

	msg, err := s.appendMessage(ctx, session, userID, msgType, content)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, session.Partner(userID), models.NotifyMessage, session, userID)
	return msg, nil
}

func (s *Service) appendMessage(ctx context.Context, session *models.Session, senderID string, msgType models.MessageType, content string) (*models.TradeMessage, error) {
	msg := &models.TradeMessage{
		Id:        ulid.Make().String(),
		SessionId: session.Id,
		SenderId:  senderID,
		Type:      msgType,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, transient("append message", err)
	}
	s.publish(ctx, feed.NewMessageEvent(msg), session)
	return msg, nil
}

// postSystemMessage records a protocol event in the conversation. Failures
// are logged only.
func (s *Service) postSystemMessage(ctx context.Context, session *models.Session, actorID, content string) {
	if _, err := s.appendMessage(ctx, session, actorID, models.SYSTEM, content); err != nil {
		s.log.Warn("failed to post system message", "sessionId", session.Id, "content", content, "error", err)
	}
}
