package service

import (
	"context"

	"github.com/skillmatch/skillmatch/internal/repository"
)

// UnreadState carries the two derived unread flags. Booleans, not counts.
type UnreadState struct {
	HasPendingConnections bool `json:"hasPendingConnections"`
	HasUnreadMessages     bool `json:"hasUnreadMessages"`
}

// UnreadService computes unread state on demand. Read-only.
type UnreadService struct {
	connections repository.ConnectionRepository
	messages    repository.MessageRepository
}

// NewUnreadService constructs the service.
func NewUnreadService(connections repository.ConnectionRepository, messages repository.MessageRepository) *UnreadService {
	return &UnreadService{connections: connections, messages: messages}
}

// State returns the caller's unread flags. An empty user id (anonymous
// polling) yields both flags false instead of an error.
func (s *UnreadService) State(ctx context.Context, userID string) (UnreadState, error) {
	if userID == "" {
		return UnreadState{}, nil
	}

	pending, err := s.connections.HasPendingForReceiver(ctx, userID)
	if err != nil {
		return UnreadState{}, err
	}
	unread, err := s.messages.HasUnreadForUser(ctx, userID)
	if err != nil {
		return UnreadState{}, err
	}
	return UnreadState{
		HasPendingConnections: pending,
		HasUnreadMessages:     unread,
	}, nil
}
