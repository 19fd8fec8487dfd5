package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/events"
	"github.com/skillmatch/skillmatch/internal/repository"
	apperrors "github.com/skillmatch/skillmatch/pkg/util"
)

// answerPreviewRunes caps the answer excerpt carried in the answer-added event.
const answerPreviewRunes = 120

// QueryService coordinates the question board.
type QueryService struct {
	queries    repository.QueryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// QueryDependencies bundles requirements for the query service.
type QueryDependencies struct {
	QueryRepo  repository.QueryRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewQueryService constructs the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	return &QueryService{
		queries:    deps.QueryRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// QueryCreateInput describes query creation payload.
type QueryCreateInput struct {
	Title       string
	Description string
	Skills      []string
}

// CreateQuery persists a query and emits the creation event that triggers
// the notification fan-out. The event is fire-and-forget; the caller's
// response does not wait on any delivery.
func (s *QueryService) CreateQuery(ctx context.Context, creatorID string, input QueryCreateInput) (*domain.Query, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	skills := trimSkills(input.Skills)
	if len(skills) == 0 {
		return nil, apperrors.NewValidationError("at least one skill required", nil)
	}

	query := &domain.Query{
		CreatorID:   creatorID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Skills:      skills,
		Status:      domain.QueryStatusOpen,
	}
	if err := s.queries.Create(ctx, query); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventQueryCreated,
		ActorID: creatorID,
		Payload: events.QueryCreatedPayload{
			QueryID:     query.ID,
			Title:       query.Title,
			Description: query.Description,
			Skills:      query.Skills,
		},
	})
	return query, nil
}

// ListQueries returns board entries, optionally filtered.
func (s *QueryService) ListQueries(ctx context.Context, filter repository.QueryFilter) ([]domain.Query, error) {
	return s.queries.ListWithFilter(ctx, filter)
}

// GetQuery returns a query with its answer thread.
func (s *QueryService) GetQuery(ctx context.Context, queryID string) (*domain.Query, []domain.Answer, error) {
	query, err := s.queries.GetByID(ctx, queryID)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.queries.ListAnswers(ctx, queryID)
	if err != nil {
		return nil, nil, err
	}
	return query, answers, nil
}

// AddAnswer appends an answer to an open query.
func (s *QueryService) AddAnswer(ctx context.Context, responderID, queryID, content string) (*domain.Answer, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	query, err := s.queries.GetByID(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if query.Status != domain.QueryStatusOpen {
		return nil, apperrors.NewConflict("query is closed", nil)
	}

	answer := &domain.Answer{
		QueryID:     queryID,
		ResponderID: responderID,
		Content:     content,
	}
	if err := s.queries.AddAnswer(ctx, answer); err != nil {
		return nil, err
	}

	// truncate on rune boundaries so a multi-byte character is never split
	preview := answer.Content
	if runes := []rune(preview); len(runes) > answerPreviewRunes {
		preview = string(runes[:answerPreviewRunes])
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventAnswerAdded,
		ActorID: responderID,
		Payload: events.AnswerAddedPayload{
			QueryID:  queryID,
			AnswerID: answer.ID,
			Preview:  preview,
		},
	})
	return answer, nil
}

// ToggleAnswerLike flips the like flag on an answer. Only the query creator
// can mark answers.
func (s *QueryService) ToggleAnswerLike(ctx context.Context, callerID, queryID, answerID string) (*domain.Answer, error) {
	query, err := s.queries.GetByID(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if query.CreatorID != callerID {
		return nil, apperrors.NewForbidden("only the query creator can like answers")
	}

	answer, err := s.queries.GetAnswer(ctx, queryID, answerID)
	if err != nil {
		return nil, err
	}
	answer.Liked = !answer.Liked
	if err := s.queries.SetAnswerLiked(ctx, answer.ID, answer.Liked); err != nil {
		return nil, err
	}
	return answer, nil
}

// CloseQuery transitions a query open -> closed. One-way; creator only.
func (s *QueryService) CloseQuery(ctx context.Context, callerID, queryID string) (*domain.Query, error) {
	query, err := s.queries.GetByID(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if query.CreatorID != callerID {
		return nil, apperrors.NewForbidden("only the creator can close a query")
	}
	if query.Status == domain.QueryStatusClosed {
		return nil, apperrors.NewConflict("query already closed", nil)
	}

	if err := s.queries.UpdateStatus(ctx, queryID, domain.QueryStatusClosed); err != nil {
		return nil, err
	}
	query.Status = domain.QueryStatusClosed
	return query, nil
}

func (s *QueryService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Error("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func trimSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(skill))
	}
	return out
}
