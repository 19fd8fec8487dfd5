package domain

import "time"

// RequestStatus enumerates lifecycle states for collaboration requests.
type RequestStatus string

const (
	RequestStatusActive RequestStatus = "ACTIVE"
	RequestStatusClosed RequestStatus = "CLOSED"
)

// RequestTag enumerates the allowed tags on a collaboration request.
type RequestTag string

const (
	RequestTagProject   RequestTag = "PROJECT"
	RequestTagHackathon RequestTag = "HACKATHON"
	RequestTagStudy     RequestTag = "STUDY"
	RequestTagMentoring RequestTag = "MENTORING"
	RequestTagOther     RequestTag = "OTHER"
)

// ValidRequestTag reports whether the tag is part of the allowed vocabulary.
func ValidRequestTag(t RequestTag) bool {
	switch t {
	case RequestTagProject, RequestTagHackathon, RequestTagStudy, RequestTagMentoring, RequestTagOther:
		return true
	}
	return false
}

// Request is a collaboration posting inviting expressions of interest.
// InterestedUserIDs holds each interested user at most once.
type Request struct {
	ID                string
	CreatorID         string
	Description       string
	Skills            []string
	Tags              []RequestTag
	InterestedUserIDs []string
	Status            RequestStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
