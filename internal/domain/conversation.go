package domain

import "time"

// Conversation is a two-party chat thread. LastMessageID points at the most
// recent message, or nil for an empty conversation.
type Conversation struct {
	ID            string
	ParticipantA  string
	ParticipantB  string
	LastMessageID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasParticipant reports whether the user takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the counterpart of the given user.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// Message belongs to exactly one conversation. ReadBy lists the user ids
// that have seen it; the sender is included at creation.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Content        string
	ReadBy         []string
	CreatedAt      time.Time
}

// ReadByUser reports whether the user id is present in ReadBy.
func (m *Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
