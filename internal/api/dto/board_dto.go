package dto

import (
	"time"

	"github.com/skillmatch/skillmatch/internal/domain"
)

// CreateQueryRequest payload.
type CreateQueryRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// CreateAnswerRequest payload.
type CreateAnswerRequest struct {
	Content string `json:"content"`
}

// QuerySummary response.
type QuerySummary struct {
	ID          string             `json:"id"`
	CreatorID   string             `json:"creator_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Skills      []string           `json:"skills"`
	Status      domain.QueryStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// QueryDetailResponse provides the query with its answer thread.
type QueryDetailResponse struct {
	QuerySummary
	Answers []AnswerResponse `json:"answers"`
}

// AnswerResponse represents a thread answer.
type AnswerResponse struct {
	ID          string    `json:"id"`
	ResponderID string    `json:"responder_id"`
	Content     string    `json:"content"`
	Liked       bool      `json:"liked"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewQuerySummary maps a domain query.
func NewQuerySummary(q *domain.Query) QuerySummary {
	return QuerySummary{
		ID:          q.ID,
		CreatorID:   q.CreatorID,
		Title:       q.Title,
		Description: q.Description,
		Skills:      q.Skills,
		Status:      q.Status,
		CreatedAt:   q.CreatedAt,
	}
}

// NewAnswerResponse maps a domain answer.
func NewAnswerResponse(a *domain.Answer) AnswerResponse {
	return AnswerResponse{
		ID:          a.ID,
		ResponderID: a.ResponderID,
		Content:     a.Content,
		Liked:       a.Liked,
		CreatedAt:   a.CreatedAt,
	}
}

// CreateCollabRequest payload for collaboration postings.
type CreateCollabRequest struct {
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Tags        []string `json:"tags"`
}

// CollabRequestResponse response.
type CollabRequestResponse struct {
	ID              string               `json:"id"`
	CreatorID       string               `json:"creator_id"`
	Description     string               `json:"description"`
	Skills          []string             `json:"skills"`
	Tags            []domain.RequestTag  `json:"tags"`
	InterestedUsers []string             `json:"interested_users"`
	Status          domain.RequestStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

// NewCollabRequestResponse maps a domain request.
func NewCollabRequestResponse(r *domain.Request) CollabRequestResponse {
	interested := r.InterestedUserIDs
	if interested == nil {
		interested = []string{}
	}
	tags := r.Tags
	if tags == nil {
		tags = []domain.RequestTag{}
	}
	return CollabRequestResponse{
		ID:              r.ID,
		CreatorID:       r.CreatorID,
		Description:     r.Description,
		Skills:          r.Skills,
		Tags:            tags,
		InterestedUsers: interested,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
	}
}
