package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/events"
	"github.com/skillmatch/skillmatch/internal/matching"
	"github.com/skillmatch/skillmatch/internal/notify"
	"github.com/skillmatch/skillmatch/internal/repository"
)

const fallbackCreatorName = "A Skillmatch user"

// FanoutService listens for query/request creation and emails every verified
// user whose skills fuzzily match the entity's skill list. The scan and all
// deliveries run detached from the triggering request: the creation response
// never waits on them, and one failed delivery never blocks another.
type FanoutService struct {
	users      repository.UserRepository
	mailer     notify.Mailer
	dispatcher events.Dispatcher
	logger     *zap.Logger

	// wg tracks in-flight fan-out runs so tests can wait for completion.
	wg sync.WaitGroup
}

// FanoutDependencies bundles requirements for the fan-out service.
type FanoutDependencies struct {
	UserRepo   repository.UserRepository
	Mailer     notify.Mailer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewFanoutService creates the service.
func NewFanoutService(deps FanoutDependencies) *FanoutService {
	return &FanoutService{
		users:      deps.UserRepo,
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// RegisterHandlers subscribes to the creation events that trigger fan-out.
func (s *FanoutService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventQueryCreated, s.handleQueryCreated)
	s.dispatcher.Subscribe(events.EventRequestCreated, s.handleRequestCreated)
}

// Wait blocks until all in-flight fan-out runs finish. Test hook.
func (s *FanoutService) Wait() {
	s.wg.Wait()
}

func (s *FanoutService) handleQueryCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.QueryCreatedPayload)
	if !ok {
		s.logger.Warn("unexpected payload type", zap.String("event", string(event.Type)))
		return nil
	}
	s.start(ctx, fanoutJob{
		creatorID:   event.ActorID,
		entityKind:  "query",
		entityID:    payload.QueryID,
		title:       payload.Title,
		description: payload.Description,
		skills:      payload.Skills,
	})
	return nil
}

func (s *FanoutService) handleRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestCreatedPayload)
	if !ok {
		s.logger.Warn("unexpected payload type", zap.String("event", string(event.Type)))
		return nil
	}
	s.start(ctx, fanoutJob{
		creatorID:   event.ActorID,
		entityKind:  "request",
		entityID:    payload.RequestID,
		title:       "Collaboration request",
		description: payload.Description,
		skills:      payload.Skills,
	})
	return nil
}

type fanoutJob struct {
	creatorID   string
	entityKind  string
	entityID    string
	title       string
	description string
	skills      []string
}

// start launches the scan-and-deliver run on a detached context so it
// outlives the HTTP request that triggered the event.
func (s *FanoutService) start(ctx context.Context, job fanoutJob) {
	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(detached, job)
	}()
}

func (s *FanoutService) run(ctx context.Context, job fanoutJob) {
	matcher := matching.NewMatcher(job.skills)
	if matcher.Empty() {
		return
	}

	creatorName := fallbackCreatorName
	if creator, err := s.users.GetByID(ctx, job.creatorID); err == nil && strings.TrimSpace(creator.Name) != "" {
		creatorName = creator.Name
	} else if err != nil && err != pgx.ErrNoRows {
		s.logger.Warn("load creator for fan-out", zap.String("creator_id", job.creatorID), zap.Error(err))
	}

	candidates, err := s.users.ListNotifiable(ctx, job.creatorID)
	if err != nil {
		s.logger.Error("scan fan-out candidates",
			zap.String("entity_kind", job.entityKind),
			zap.String("entity_id", job.entityID),
			zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Skillmatch: %s may need your skills", creatorName)
	body := fmt.Sprintf("%s posted a %s that matches your profile.\n\n%s\n%s\n\nSkills: %s\nRef: %s\n",
		creatorName, job.entityKind, job.title, job.description,
		strings.Join(job.skills, ", "), job.entityID)

	delivered := 0
	for _, candidate := range candidates {
		if !matcher.Matches(candidate.Skills) {
			continue
		}
		// each delivery is isolated; a failure is logged and the loop goes on
		if err := s.mailer.Send(ctx, candidate.Email, subject, body); err != nil {
			s.logger.Error("fan-out delivery failed",
				zap.String("recipient_id", candidate.ID),
				zap.String("entity_id", job.entityID),
				zap.Error(err))
			continue
		}
		delivered++
	}

	s.logger.Info("fan-out complete",
		zap.String("entity_kind", job.entityKind),
		zap.String("entity_id", job.entityID),
		zap.Int("candidates", len(candidates)),
		zap.Int("delivered", delivered))
}
