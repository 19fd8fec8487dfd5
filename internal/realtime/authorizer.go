package realtime

import (
	"context"
	"strings"

	"github.com/skillmatch/skillmatch/internal/repository"
)

// TopicAuthorizer decides whether a user may subscribe to a topic.
type TopicAuthorizer interface {
	CanSubscribe(ctx context.Context, userID, topic string) bool
}

// Authorizer grants a user their own user topic and the chat topics of
// conversations they take part in. Every other topic is denied.
type Authorizer struct {
	conversations repository.ConversationRepository
}

// NewAuthorizer constructs the authorizer.
func NewAuthorizer(conversations repository.ConversationRepository) *Authorizer {
	return &Authorizer{conversations: conversations}
}

// CanSubscribe reports whether the topic is open to the user.
func (a *Authorizer) CanSubscribe(ctx context.Context, userID, topic string) bool {
	if userID == "" {
		return false
	}
	if ownerID, ok := parseUserTopic(topic); ok {
		return ownerID == userID
	}
	if conversationID, ok := parseChatTopic(topic); ok {
		conv, err := a.conversations.GetByID(ctx, conversationID)
		return err == nil && conv.HasParticipant(userID)
	}
	return false
}

func parseUserTopic(topic string) (string, bool) {
	return parseTopic(topic, "user-")
}

func parseChatTopic(topic string) (string, bool) {
	return parseTopic(topic, "chat-")
}

func parseTopic(topic, prefix string) (string, bool) {
	if !strings.HasPrefix(topic, prefix) || len(topic) == len(prefix) {
		return "", false
	}
	return topic[len(prefix):], true
}
