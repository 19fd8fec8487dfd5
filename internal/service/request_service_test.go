package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/events"
	"github.com/skillmatch/skillmatch/internal/service"
)

func newRequestFixture(t *testing.T) (*service.RequestService, *eventRecorder) {
	t.Helper()
	requests := newFakeRequestRepo()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	dispatcher.Subscribe(events.EventRequestCreated, recorder.record)
	svc := service.NewRequestService(service.RequestDependencies{
		RequestRepo: requests,
		Dispatcher:  dispatcher,
		Logger:      zap.NewNop(),
	})
	return svc, recorder
}

func TestCreateRequestPublishesCreationEvent(t *testing.T) {
	svc, recorder := newRequestFixture(t)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, "user-1", service.RequestCreateInput{
		Description: "Looking for a hackathon teammate",
		Skills:      []string{"Go", "Postgres"},
		Tags:        []domain.RequestTag{domain.RequestTagHackathon},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if request.Status != domain.RequestStatusActive {
		t.Errorf("expected ACTIVE, got %s", request.Status)
	}

	published := recorder.all()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	payload, ok := published[0].Payload.(events.RequestCreatedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", published[0].Payload)
	}
	if payload.RequestID != request.ID {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestCreateRequestRejectsUnknownTag(t *testing.T) {
	svc, _ := newRequestFixture(t)
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, "user-1", service.RequestCreateInput{
		Description: "d",
		Skills:      []string{"go"},
		Tags:        []domain.RequestTag{"WEEKEND"},
	})
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestExpressInterestCountsUserOnce(t *testing.T) {
	svc, _ := newRequestFixture(t)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, "creator", service.RequestCreateInput{
		Description: "d", Skills: []string{"go"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, added, err := svc.ExpressInterest(ctx, "fan", request.ID)
	if err != nil {
		t.Fatalf("interest: %v", err)
	}
	if !added || len(updated.InterestedUserIDs) != 1 {
		t.Errorf("expected first interest recorded, added=%v ids=%v", added, updated.InterestedUserIDs)
	}

	updated, added, err = svc.ExpressInterest(ctx, "fan", request.ID)
	if err != nil {
		t.Fatalf("repeat interest: %v", err)
	}
	if added || len(updated.InterestedUserIDs) != 1 {
		t.Errorf("repeat interest must be a no-op, added=%v ids=%v", added, updated.InterestedUserIDs)
	}
}

func TestExpressInterestRejectsOwnAndClosed(t *testing.T) {
	svc, _ := newRequestFixture(t)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, "creator", service.RequestCreateInput{
		Description: "d", Skills: []string{"go"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, _, err = svc.ExpressInterest(ctx, "creator", request.ID)
	assertDomainCode(t, err, "CONFLICT")

	if _, err := svc.CloseRequest(ctx, "creator", request.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, _, err = svc.ExpressInterest(ctx, "fan", request.ID)
	assertDomainCode(t, err, "CONFLICT")
}

func TestCloseRequestCreatorOnlyAndOneWay(t *testing.T) {
	svc, _ := newRequestFixture(t)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, "creator", service.RequestCreateInput{
		Description: "d", Skills: []string{"go"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.CloseRequest(ctx, "stranger", request.ID)
	assertDomainCode(t, err, "FORBIDDEN")

	closed, err := svc.CloseRequest(ctx, "creator", request.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != domain.RequestStatusClosed {
		t.Errorf("expected CLOSED, got %s", closed.Status)
	}

	_, err = svc.CloseRequest(ctx, "creator", request.ID)
	assertDomainCode(t, err, "CONFLICT")
}
