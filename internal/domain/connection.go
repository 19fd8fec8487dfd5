package domain

import "time"

// ConnectionStatus enumerates lifecycle states for connections.
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "PENDING"
	ConnectionStatusAccepted ConnectionStatus = "ACCEPTED"
	ConnectionStatusDeclined ConnectionStatus = "DECLINED"
)

// ConnectionSource records where the connection request originated from.
type ConnectionSource string

const (
	ConnectionSourceProfile ConnectionSource = "PROFILE"
	ConnectionSourceSearch  ConnectionSource = "SEARCH"
	ConnectionSourceQuery   ConnectionSource = "QUERY"
	ConnectionSourceRequest ConnectionSource = "REQUEST"
)

// Connection is a directed, status-tracked relationship between two users.
// At most one connection should exist per unordered pair; the check before
// creation is not atomic, so concurrent mutual requests can slip through.
type Connection struct {
	ID         string
	SenderID   string
	ReceiverID string
	Status     ConnectionStatus
	Source     ConnectionSource
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
