package domain

import "time"

// QueryStatus enumerates lifecycle states for queries.
type QueryStatus string

const (
	QueryStatusOpen   QueryStatus = "OPEN"
	QueryStatusClosed QueryStatus = "CLOSED"
)

// Query is a skill-tagged question posted to the board.
type Query struct {
	ID          string
	CreatorID   string
	Title       string
	Description string
	Skills      []string
	Status      QueryStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Answer is a response on a query thread. It is owned by its parent query
// and has no independent lifecycle.
type Answer struct {
	ID          string
	QueryID     string
	ResponderID string
	Content     string
	Liked       bool
	CreatedAt   time.Time
}
