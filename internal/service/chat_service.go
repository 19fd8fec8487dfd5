package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/realtime"
	"github.com/skillmatch/skillmatch/internal/repository"
	apperrors "github.com/skillmatch/skillmatch/pkg/util"
)

// ChatService coordinates conversations and direct messages.
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	relay         realtime.Relay
	logger        *zap.Logger
}

// ChatDependencies bundles requirements for the chat service.
type ChatDependencies struct {
	ConversationRepo repository.ConversationRepository
	MessageRepo      repository.MessageRepository
	Relay            realtime.Relay
	Logger           *zap.Logger
}

// NewChatService constructs the service.
func NewChatService(deps ChatDependencies) *ChatService {
	return &ChatService{
		conversations: deps.ConversationRepo,
		messages:      deps.MessageRepo,
		relay:         deps.Relay,
		logger:        deps.Logger,
	}
}

// ConversationView pairs a conversation with its most recent message.
type ConversationView struct {
	Conversation domain.Conversation
	LastMessage  *domain.Message
}

// ListConversations returns the caller's conversations with last messages
// attached, most recently active first.
func (s *ChatService) ListConversations(ctx context.Context, callerID string) ([]ConversationView, error) {
	convs, err := s.conversations.ListByParticipant(ctx, callerID)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		view := ConversationView{Conversation: conv}
		if conv.LastMessageID != nil {
			msg, err := s.messages.GetByID(ctx, *conv.LastMessageID)
			if err == nil {
				view.LastMessage = msg
			} else if err != pgx.ErrNoRows {
				return nil, err
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// ListMessages pages a conversation backwards from `before` (zero time means
// newest) and marks the page read for the caller.
func (s *ChatService) ListMessages(ctx context.Context, callerID, conversationID string, before time.Time, limit int) ([]domain.Message, error) {
	if _, err := s.participantConversation(ctx, callerID, conversationID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListBefore(ctx, conversationID, before, limit)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkRead(ctx, conversationID, callerID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage appends a message, updates the conversation's last-message
// reference and pushes a realtime event to the chat topic.
func (s *ChatService) SendMessage(ctx context.Context, sender *domain.User, conversationID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	conv, err := s.participantConversation(ctx, sender.ID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderID:       sender.ID,
		Content:        content,
		ReadBy:         []string{sender.ID},
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.conversations.SetLastMessage(ctx, conv.ID, msg.ID); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"messageId":      msg.ID,
		"conversationId": conv.ID,
		"senderId":       msg.SenderID,
		"senderName":     sender.Name,
		"content":        msg.Content,
		"createdAt":      msg.CreatedAt,
	}
	s.publish(ctx, realtime.ChatTopic(conv.ID), realtime.EventNewMessage, payload)
	// the counterpart may not have the chat open; nudge their user topic too
	s.publish(ctx, realtime.UserTopic(conv.OtherParticipant(sender.ID)), realtime.EventNewMessage, payload)
	return msg, nil
}

// DeleteMessage removes the sender's own message and notifies the chat topic.
func (s *ChatService) DeleteMessage(ctx context.Context, callerID, conversationID, messageID string) error {
	if _, err := s.participantConversation(ctx, callerID, conversationID); err != nil {
		return err
	}

	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("message", nil)
		}
		return err
	}
	if msg.ConversationID != conversationID {
		return apperrors.NewNotFound("message", nil)
	}
	if msg.SenderID != callerID {
		return apperrors.NewForbidden("only the sender can delete a message")
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		return err
	}

	s.publish(ctx, realtime.ChatTopic(conversationID), realtime.EventDeleteMessage, map[string]any{
		"messageId":      messageID,
		"conversationId": conversationID,
	})
	return nil
}

// MarkConversationRead adds the caller to readBy of every unread message.
func (s *ChatService) MarkConversationRead(ctx context.Context, callerID, conversationID string) error {
	if _, err := s.participantConversation(ctx, callerID, conversationID); err != nil {
		return err
	}
	return s.messages.MarkRead(ctx, conversationID, callerID)
}

func (s *ChatService) participantConversation(ctx context.Context, callerID, conversationID string) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("conversation", nil)
		}
		return nil, err
	}
	if !conv.HasParticipant(callerID) {
		return nil, apperrors.NewForbidden("not a participant of this conversation")
	}
	return conv, nil
}

func (s *ChatService) publish(ctx context.Context, topic, event string, payload any) {
	if s.relay == nil {
		return
	}
	if err := s.relay.Publish(ctx, topic, event, payload); err != nil {
		s.logger.Error("relay publish", zap.String("topic", topic), zap.String("event", event), zap.Error(err))
	}
}
