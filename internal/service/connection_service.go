package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/events"
	"github.com/skillmatch/skillmatch/internal/realtime"
	"github.com/skillmatch/skillmatch/internal/repository"
	apperrors "github.com/skillmatch/skillmatch/pkg/util"
)

// ConnectionService coordinates connection requests between members.
type ConnectionService struct {
	connections   repository.ConnectionRepository
	conversations repository.ConversationRepository
	users         repository.UserRepository
	relay         realtime.Relay
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// ConnectionDependencies bundles requirements for the connection service.
type ConnectionDependencies struct {
	ConnectionRepo   repository.ConnectionRepository
	ConversationRepo repository.ConversationRepository
	UserRepo         repository.UserRepository
	Relay            realtime.Relay
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewConnectionService constructs the service.
func NewConnectionService(deps ConnectionDependencies) *ConnectionService {
	return &ConnectionService{
		connections:   deps.ConnectionRepo,
		conversations: deps.ConversationRepo,
		users:         deps.UserRepo,
		relay:         deps.Relay,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
	}
}

// Connect creates a pending connection from sender to receiver. The
// existence check covers both orderings of the pair but is not atomic with
// the insert; simultaneous mutual requests can both pass it.
func (s *ConnectionService) Connect(ctx context.Context, sender *domain.User, receiverID string, source domain.ConnectionSource) (*domain.Connection, error) {
	if receiverID == "" {
		return nil, apperrors.NewValidationError("receiverId required", nil)
	}
	if receiverID == sender.ID {
		return nil, apperrors.NewConflict("cannot connect to yourself", nil)
	}

	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	exists, err := s.connections.ExistsBetween(ctx, sender.ID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("connection already exists", nil)
	}

	if source == "" {
		source = domain.ConnectionSourceProfile
	}
	conn := &domain.Connection{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Status:     domain.ConnectionStatusPending,
		Source:     source,
	}
	if err := s.connections.Create(ctx, conn); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.UserTopic(receiver.ID), realtime.EventConnectRequest, map[string]any{
		"connectionId": conn.ID,
		"senderId":     sender.ID,
		"senderName":   sender.Name,
		"source":       conn.Source,
	})
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventConnectionCreated,
			ActorID:   sender.ID,
			Timestamp: time.Now(),
			Payload: events.ConnectionCreatedPayload{
				ConnectionID: conn.ID,
				SenderID:     sender.ID,
				ReceiverID:   receiver.ID,
			},
		})
	}
	return conn, nil
}

// Accept marks a pending connection accepted and ensures a conversation
// exists for the pair.
func (s *ConnectionService) Accept(ctx context.Context, callerID, connectionID string) (*domain.Connection, *domain.Conversation, error) {
	conn, err := s.pendingForReceiver(ctx, callerID, connectionID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.connections.UpdateStatus(ctx, conn.ID, domain.ConnectionStatusAccepted); err != nil {
		return nil, nil, err
	}
	conn.Status = domain.ConnectionStatusAccepted

	conv, err := s.conversations.GetByParticipants(ctx, conn.SenderID, conn.ReceiverID)
	if err == pgx.ErrNoRows {
		conv = &domain.Conversation{
			ParticipantA: conn.SenderID,
			ParticipantB: conn.ReceiverID,
		}
		if err := s.conversations.Create(ctx, conv); err != nil {
			return nil, nil, err
		}
		payload := map[string]any{
			"conversationId": conv.ID,
			"participants":   []string{conv.ParticipantA, conv.ParticipantB},
		}
		s.publish(ctx, realtime.UserTopic(conn.SenderID), realtime.EventNewConversation, payload)
		s.publish(ctx, realtime.UserTopic(conn.ReceiverID), realtime.EventNewConversation, payload)
	} else if err != nil {
		return nil, nil, err
	}

	return conn, conv, nil
}

// Decline marks a pending connection declined.
func (s *ConnectionService) Decline(ctx context.Context, callerID, connectionID string) (*domain.Connection, error) {
	conn, err := s.pendingForReceiver(ctx, callerID, connectionID)
	if err != nil {
		return nil, err
	}

	if err := s.connections.UpdateStatus(ctx, conn.ID, domain.ConnectionStatusDeclined); err != nil {
		return nil, err
	}
	conn.Status = domain.ConnectionStatusDeclined
	return conn, nil
}

// List returns the caller's connections, optionally narrowed by status.
func (s *ConnectionService) List(ctx context.Context, callerID string, statuses []domain.ConnectionStatus) ([]domain.Connection, error) {
	return s.connections.ListWithFilter(ctx, repository.ConnectionFilter{
		UserID:   &callerID,
		Statuses: statuses,
	})
}

func (s *ConnectionService) pendingForReceiver(ctx context.Context, callerID, connectionID string) (*domain.Connection, error) {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("connection", nil)
		}
		return nil, err
	}
	if conn.ReceiverID != callerID {
		return nil, apperrors.NewForbidden("only the receiver can act on this connection")
	}
	if conn.Status != domain.ConnectionStatusPending {
		return nil, apperrors.NewConflict("connection is not pending", nil)
	}
	return conn, nil
}

func (s *ConnectionService) publish(ctx context.Context, topic, event string, payload any) {
	if s.relay == nil {
		return
	}
	if err := s.relay.Publish(ctx, topic, event, payload); err != nil {
		s.logger.Error("relay publish", zap.String("topic", topic), zap.String("event", event), zap.Error(err))
	}
}
