package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQueryCreated      EventType = "query_created"
	EventRequestCreated    EventType = "request_created"
	EventAnswerAdded       EventType = "answer_added"
	EventConnectionCreated EventType = "connection_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// QueryCreatedPayload payload.
type QueryCreatedPayload struct {
	QueryID     string   `json:"query_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	RequestID   string   `json:"request_id"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// AnswerAddedPayload payload.
type AnswerAddedPayload struct {
	QueryID  string `json:"query_id"`
	AnswerID string `json:"answer_id"`
	Preview  string `json:"preview"`
}

// ConnectionCreatedPayload payload.
type ConnectionCreatedPayload struct {
	ConnectionID string `json:"connection_id"`
	SenderID     string `json:"sender_id"`
	ReceiverID   string `json:"receiver_id"`
}
