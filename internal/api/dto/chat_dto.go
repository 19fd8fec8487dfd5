package dto

import (
	"time"

	"github.com/skillmatch/skillmatch/internal/domain"
)

// CreateConnectionRequest payload.
type CreateConnectionRequest struct {
	ReceiverID string `json:"receiver_id"`
	Source     string `json:"source"`
}

// ConnectionResponse response.
type ConnectionResponse struct {
	ID         string                  `json:"id"`
	SenderID   string                  `json:"sender_id"`
	ReceiverID string                  `json:"receiver_id"`
	Status     domain.ConnectionStatus `json:"status"`
	Source     domain.ConnectionSource `json:"source"`
	CreatedAt  time.Time               `json:"created_at"`
}

// NewConnectionResponse maps a domain connection.
func NewConnectionResponse(c *domain.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:         c.ID,
		SenderID:   c.SenderID,
		ReceiverID: c.ReceiverID,
		Status:     c.Status,
		Source:     c.Source,
		CreatedAt:  c.CreatedAt,
	}
}

// SendMessageRequest payload.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse represents one chat message.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	ReadBy         []string  `json:"read_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(m *domain.Message) MessageResponse {
	readBy := m.ReadBy
	if readBy == nil {
		readBy = []string{}
	}
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		ReadBy:         readBy,
		CreatedAt:      m.CreatedAt,
	}
}

// ConversationResponse pairs a conversation with its last message.
type ConversationResponse struct {
	ID           string           `json:"id"`
	Participants []string         `json:"participants"`
	LastMessage  *MessageResponse `json:"last_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
