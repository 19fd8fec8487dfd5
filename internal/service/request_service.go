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

// RequestService coordinates collaboration postings.
type RequestService struct {
	requests   repository.RequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RequestDependencies bundles requirements for the request service.
type RequestDependencies struct {
	RequestRepo repository.RequestRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		requests:   deps.RequestRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// RequestCreateInput describes posting creation payload.
type RequestCreateInput struct {
	Description string
	Skills      []string
	Tags        []domain.RequestTag
}

// CreateRequest persists a posting and emits the creation event feeding the
// notification fan-out.
func (s *RequestService) CreateRequest(ctx context.Context, creatorID string, input RequestCreateInput) (*domain.Request, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}

	skills := trimSkills(input.Skills)
	if len(skills) == 0 {
		return nil, apperrors.NewValidationError("at least one skill required", nil)
	}

	for _, tag := range input.Tags {
		if !domain.ValidRequestTag(tag) {
			return nil, apperrors.NewValidationError("unknown tag", map[string]any{"tag": string(tag)})
		}
	}

	request := &domain.Request{
		CreatorID:   creatorID,
		Description: description,
		Skills:      skills,
		Tags:        input.Tags,
		Status:      domain.RequestStatusActive,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventRequestCreated,
		ActorID: creatorID,
		Payload: events.RequestCreatedPayload{
			RequestID:   request.ID,
			Description: request.Description,
			Skills:      request.Skills,
		},
	})
	return request, nil
}

// ListRequests returns postings, optionally filtered.
func (s *RequestService) ListRequests(ctx context.Context, filter repository.RequestFilter) ([]domain.Request, error) {
	return s.requests.ListWithFilter(ctx, filter)
}

// GetRequest returns a posting by id.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*domain.Request, error) {
	return s.requests.GetByID(ctx, requestID)
}

// ExpressInterest records the caller's interest in an active posting. A user
// is counted once; repeating the action is a no-op reported as such.
func (s *RequestService) ExpressInterest(ctx context.Context, callerID, requestID string) (*domain.Request, bool, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, false, err
	}
	if request.Status != domain.RequestStatusActive {
		return nil, false, apperrors.NewConflict("request is closed", nil)
	}
	if request.CreatorID == callerID {
		return nil, false, apperrors.NewConflict("cannot express interest in your own request", nil)
	}

	added, err := s.requests.AddInterest(ctx, requestID, callerID)
	if err != nil {
		return nil, false, err
	}
	if added {
		request.InterestedUserIDs = append(request.InterestedUserIDs, callerID)
	}
	return request, added, nil
}

// CloseRequest transitions a posting active -> closed. Creator only.
func (s *RequestService) CloseRequest(ctx context.Context, callerID, requestID string) (*domain.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.CreatorID != callerID {
		return nil, apperrors.NewForbidden("only the creator can close a request")
	}
	if request.Status == domain.RequestStatusClosed {
		return nil, apperrors.NewConflict("request already closed", nil)
	}

	if err := s.requests.UpdateStatus(ctx, requestID, domain.RequestStatusClosed); err != nil {
		return nil, err
	}
	request.Status = domain.RequestStatusClosed
	return request, nil
}

func (s *RequestService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Error("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
