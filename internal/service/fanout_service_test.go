package service_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/events"
	"github.com/skillmatch/skillmatch/internal/service"
)

func newFanoutFixture(t *testing.T) (*service.FanoutService, *fakeUserRepo, *fakeMailer, events.Dispatcher) {
	t.Helper()
	users := newFakeUserRepo()
	mailer := newFakeMailer()
	dispatcher := events.NewInMemoryDispatcher()
	svc := service.NewFanoutService(service.FanoutDependencies{
		UserRepo:   users,
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	svc.RegisterHandlers()
	return svc, users, mailer, dispatcher
}

func publishQueryCreated(t *testing.T, dispatcher events.Dispatcher, creatorID string, skills []string) {
	t.Helper()
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventQueryCreated,
		ActorID: creatorID,
		Payload: events.QueryCreatedPayload{
			QueryID:     "query-1",
			Title:       "Need help",
			Description: "Looking for collaborators",
			Skills:      skills,
		},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func TestFanoutNotifiesMatchingUsersOnly(t *testing.T) {
	svc, users, mailer, dispatcher := newFanoutFixture(t)

	creator := users.add(&domain.User{Name: "Alice", Email: "alice@example.com", Verified: true, Skills: []string{"react", "Node.js"}})
	users.add(&domain.User{Name: "Bob", Email: "bob@example.com", Verified: true, Skills: []string{"ReactJS"}})
	users.add(&domain.User{Name: "Carol", Email: "carol@example.com", Verified: true, Skills: []string{"Java"}})

	publishQueryCreated(t, dispatcher, creator.ID, []string{"react", "Node.js"})
	svc.Wait()

	got := mailer.recipients()
	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d: %v", len(got), got)
	}
	if got[0] != "bob@example.com" {
		t.Errorf("expected bob@example.com, got %s", got[0])
	}
}

func TestFanoutExcludesCreator(t *testing.T) {
	svc, users, mailer, dispatcher := newFanoutFixture(t)

	// the creator's own skills match the posting
	creator := users.add(&domain.User{Name: "Alice", Email: "alice@example.com", Verified: true, Skills: []string{"python"}})
	users.add(&domain.User{Name: "Bob", Email: "bob@example.com", Verified: true, Skills: []string{"Python"}})

	publishQueryCreated(t, dispatcher, creator.ID, []string{"python"})
	svc.Wait()

	got := mailer.recipients()
	if contains(got, "alice@example.com") {
		t.Error("creator must not be notified about their own posting")
	}
	if !contains(got, "bob@example.com") {
		t.Errorf("expected bob@example.com among %v", got)
	}
}

func TestFanoutSkipsUnverifiedUsers(t *testing.T) {
	svc, users, mailer, dispatcher := newFanoutFixture(t)

	creator := users.add(&domain.User{Name: "Alice", Email: "alice@example.com", Verified: true})
	users.add(&domain.User{Name: "Bob", Email: "bob@example.com", Verified: false, Skills: []string{"golang"}})
	users.add(&domain.User{Name: "Carol", Email: "carol@example.com", Verified: true, Skills: []string{"golang"}})

	publishQueryCreated(t, dispatcher, creator.ID, []string{"golang"})
	svc.Wait()

	got := mailer.recipients()
	if contains(got, "bob@example.com") {
		t.Error("unverified user must not be notified")
	}
	if !contains(got, "carol@example.com") {
		t.Errorf("expected carol@example.com among %v", got)
	}
}

func TestFanoutDeliveryFailureDoesNotSuppressOthers(t *testing.T) {
	svc, users, mailer, dispatcher := newFanoutFixture(t)

	creator := users.add(&domain.User{Name: "Alice", Email: "alice@example.com", Verified: true})
	users.add(&domain.User{Name: "Bob", Email: "bob@example.com", Verified: true, Skills: []string{"rust"}})
	users.add(&domain.User{Name: "Carol", Email: "carol@example.com", Verified: true, Skills: []string{"rust"}})
	users.add(&domain.User{Name: "Dave", Email: "dave@example.com", Verified: true, Skills: []string{"rust"}})
	mailer.failTo["carol@example.com"] = true

	publishQueryCreated(t, dispatcher, creator.ID, []string{"rust"})
	svc.Wait()

	got := mailer.recipients()
	if !contains(got, "bob@example.com") || !contains(got, "dave@example.com") {
		t.Errorf("healthy recipients must still be delivered, got %v", got)
	}
	if contains(got, "carol@example.com") {
		t.Errorf("failed recipient recorded as delivered: %v", got)
	}
}

func TestFanoutDoesNotBlockPublisher(t *testing.T) {
	svc, users, mailer, dispatcher := newFanoutFixture(t)

	creator := users.add(&domain.User{Name: "Alice", Email: "alice@example.com", Verified: true})
	users.add(&domain.User{Name: "Bob", Email: "bob@example.com", Verified: true, Skills: []string{"react"}})

	done := make(chan struct{})
	go func() {
		publishQueryCreated(t, dispatcher, creator.ID, []string{"react"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on fan-out")
	}

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery attempt observed")
	}
	svc.Wait()
}

func TestFanoutHandlesRequestCreated(t *testing.T) {
	svc, users, mailer, dispatcher := newFanoutFixture(t)

	creator := users.add(&domain.User{Name: "Alice", Email: "alice@example.com", Verified: true})
	users.add(&domain.User{Name: "Bob", Email: "bob@example.com", Verified: true, Skills: []string{"kubernetes admin"}})

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventRequestCreated,
		ActorID: creator.ID,
		Payload: events.RequestCreatedPayload{
			RequestID:   "request-1",
			Description: "Weekend hackathon team",
			Skills:      []string{"Kubernetes"},
		},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	svc.Wait()

	if got := mailer.recipients(); !contains(got, "bob@example.com") {
		t.Errorf("expected bob@example.com among %v", got)
	}
}

func TestFanoutSkipsBlankSkillList(t *testing.T) {
	svc, users, mailer, dispatcher := newFanoutFixture(t)

	creator := users.add(&domain.User{Name: "Alice", Email: "alice@example.com", Verified: true})
	users.add(&domain.User{Name: "Bob", Email: "bob@example.com", Verified: true, Skills: []string{"anything"}})

	publishQueryCreated(t, dispatcher, creator.ID, []string{"", "   "})
	svc.Wait()

	if got := mailer.recipients(); len(got) != 0 {
		t.Errorf("expected no deliveries for blank skill list, got %v", got)
	}
}
