package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) add(user *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Verified = true
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListWithFilter(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if filter.Verified != nil && user.Verified != *filter.Verified {
			continue
		}
		if filter.ExcludeID != nil && user.ID == *filter.ExcludeID {
			continue
		}
		if filter.NameSearch != nil &&
			!strings.Contains(strings.ToLower(user.Name), strings.ToLower(*filter.NameSearch)) {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) ListNotifiable(_ context.Context, excludeID string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.ID == excludeID || !user.Verified || user.Email == "" {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

// fakeMailer records deliveries and can fail selected recipients.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]bool
	done   chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failTo: make(map[string]bool), done: make(chan string, 32)}
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[to] {
		m.done <- to
		return errors.New("delivery failed")
	}
	m.sent = append(m.sent, to)
	m.done <- to
	return nil
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}

// fakeOTPRepo stores a single live code per email.
type fakeOTPRepo struct {
	mu    sync.Mutex
	codes map[string]string
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{codes: make(map[string]string)}
}

func (r *fakeOTPRepo) Issue(_ context.Context, email string, _ time.Duration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := fmt.Sprintf("%06d", len(r.codes)+100000)
	r.codes[email] = code
	return code, nil
}

func (r *fakeOTPRepo) Consume(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.codes[email]
	if !ok || stored != code {
		return repository.ErrOTPNotFound
	}
	delete(r.codes, email)
	return nil
}

func (r *fakeOTPRepo) lastCode(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[email]
}

// fakeRelay records published events and can be forced to fail.
type fakeRelay struct {
	mu        sync.Mutex
	published []publishedEvent
	fail      bool
}

type publishedEvent struct {
	topic string
	event string
}

func (r *fakeRelay) Publish(_ context.Context, topic, event string, _ interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("relay unavailable")
	}
	r.published = append(r.published, publishedEvent{topic: topic, event: event})
	return nil
}

func (r *fakeRelay) events() []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]publishedEvent, len(r.published))
	copy(out, r.published)
	return out
}

// fakeQueryRepo is an in-memory QueryRepository.
type fakeQueryRepo struct {
	mu      sync.Mutex
	seq     int
	queries map[string]*domain.Query
	answers map[string]*domain.Answer
}

func newFakeQueryRepo() *fakeQueryRepo {
	return &fakeQueryRepo{
		queries: make(map[string]*domain.Query),
		answers: make(map[string]*domain.Answer),
	}
}

func (r *fakeQueryRepo) Create(_ context.Context, query *domain.Query) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	query.ID = fmt.Sprintf("query-%d", r.seq)
	query.CreatedAt = time.Now()
	query.UpdatedAt = query.CreatedAt
	copied := *query
	r.queries[query.ID] = &copied
	return nil
}

func (r *fakeQueryRepo) GetByID(_ context.Context, id string) (*domain.Query, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query, ok := r.queries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *query
	return &copied, nil
}

func (r *fakeQueryRepo) UpdateStatus(_ context.Context, id string, status domain.QueryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	query, ok := r.queries[id]
	if !ok {
		return pgx.ErrNoRows
	}
	query.Status = status
	return nil
}

func (r *fakeQueryRepo) ListWithFilter(_ context.Context, filter repository.QueryFilter) ([]domain.Query, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Query
	for _, query := range r.queries {
		if filter.CreatorID != nil && query.CreatorID != *filter.CreatorID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if query.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *query)
	}
	return result, nil
}

func (r *fakeQueryRepo) AddAnswer(_ context.Context, answer *domain.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	answer.ID = fmt.Sprintf("answer-%d", r.seq)
	answer.CreatedAt = time.Now()
	copied := *answer
	r.answers[answer.ID] = &copied
	return nil
}

func (r *fakeQueryRepo) GetAnswer(_ context.Context, queryID, answerID string) (*domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	answer, ok := r.answers[answerID]
	if !ok || answer.QueryID != queryID {
		return nil, pgx.ErrNoRows
	}
	copied := *answer
	return &copied, nil
}

func (r *fakeQueryRepo) SetAnswerLiked(_ context.Context, answerID string, liked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	answer, ok := r.answers[answerID]
	if !ok {
		return pgx.ErrNoRows
	}
	answer.Liked = liked
	return nil
}

func (r *fakeQueryRepo) ListAnswers(_ context.Context, queryID string) ([]domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Answer
	for _, answer := range r.answers {
		if answer.QueryID == queryID {
			result = append(result, *answer)
		}
	}
	return result, nil
}

// fakeRequestRepo is an in-memory RequestRepository.
type fakeRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]*domain.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*domain.Request)}
}

func (r *fakeRequestRepo) Create(_ context.Context, request *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	request.ID = fmt.Sprintf("request-%d", r.seq)
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *request
	copied.InterestedUserIDs = append([]string(nil), request.InterestedUserIDs...)
	return &copied, nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, id string, status domain.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return pgx.ErrNoRows
	}
	request.Status = status
	return nil
}

func (r *fakeRequestRepo) AddInterest(_ context.Context, requestID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[requestID]
	if !ok {
		return false, pgx.ErrNoRows
	}
	for _, id := range request.InterestedUserIDs {
		if id == userID {
			return false, nil
		}
	}
	request.InterestedUserIDs = append(request.InterestedUserIDs, userID)
	return true, nil
}

func (r *fakeRequestRepo) ListWithFilter(_ context.Context, filter repository.RequestFilter) ([]domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Request
	for _, request := range r.requests {
		if filter.CreatorID != nil && request.CreatorID != *filter.CreatorID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if request.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *request)
	}
	return result, nil
}

// fakeConnectionRepo is an in-memory ConnectionRepository.
type fakeConnectionRepo struct {
	mu    sync.Mutex
	seq   int
	conns map[string]*domain.Connection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{conns: make(map[string]*domain.Connection)}
}

func (r *fakeConnectionRepo) Create(_ context.Context, conn *domain.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	conn.ID = fmt.Sprintf("conn-%d", r.seq)
	conn.CreatedAt = time.Now()
	conn.UpdatedAt = conn.CreatedAt
	copied := *conn
	r.conns[conn.ID] = &copied
	return nil
}

func (r *fakeConnectionRepo) GetByID(_ context.Context, id string) (*domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *conn
	return &copied, nil
}

func (r *fakeConnectionRepo) UpdateStatus(_ context.Context, id string, status domain.ConnectionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	if !ok {
		return pgx.ErrNoRows
	}
	conn.Status = status
	return nil
}

func (r *fakeConnectionRepo) ExistsBetween(_ context.Context, userA, userB string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conn := range r.conns {
		if (conn.SenderID == userA && conn.ReceiverID == userB) ||
			(conn.SenderID == userB && conn.ReceiverID == userA) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConnectionRepo) HasPendingForReceiver(_ context.Context, receiverID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conn := range r.conns {
		if conn.ReceiverID == receiverID && conn.Status == domain.ConnectionStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConnectionRepo) ListWithFilter(_ context.Context, filter repository.ConnectionFilter) ([]domain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Connection
	for _, conn := range r.conns {
		if filter.UserID != nil && conn.SenderID != *filter.UserID && conn.ReceiverID != *filter.UserID {
			continue
		}
		if filter.ReceiverID != nil && conn.ReceiverID != *filter.ReceiverID {
			continue
		}
		if filter.SenderID != nil && conn.SenderID != *filter.SenderID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if conn.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *conn)
	}
	return result, nil
}

// fakeConversationRepo is an in-memory ConversationRepository.
type fakeConversationRepo struct {
	mu    sync.Mutex
	seq   int
	convs map[string]*domain.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{convs: make(map[string]*domain.Conversation)}
}

func (r *fakeConversationRepo) Create(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	conv.ID = fmt.Sprintf("conv-%d", r.seq)
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	copied := *conv
	r.convs[conv.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) GetByParticipants(_ context.Context, userA, userB string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.convs {
		if (conv.ParticipantA == userA && conv.ParticipantB == userB) ||
			(conv.ParticipantA == userB && conv.ParticipantB == userA) {
			copied := *conv
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeConversationRepo) ListByParticipant(_ context.Context, userID string) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Conversation
	for _, conv := range r.convs {
		if conv.ParticipantA == userID || conv.ParticipantB == userID {
			result = append(result, *conv)
		}
	}
	return result, nil
}

func (r *fakeConversationRepo) SetLastMessage(_ context.Context, conversationID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[conversationID]
	if !ok {
		return pgx.ErrNoRows
	}
	conv.LastMessageID = &messageID
	conv.UpdatedAt = time.Now()
	return nil
}

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	mu    sync.Mutex
	seq   int
	msgs  map[string]*domain.Message
	convs *fakeConversationRepo
}

func newFakeMessageRepo(convs *fakeConversationRepo) *fakeMessageRepo {
	return &fakeMessageRepo{msgs: make(map[string]*domain.Message), convs: convs}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg.ID = fmt.Sprintf("msg-%d", r.seq)
	msg.CreatedAt = time.Now()
	if msg.ReadBy == nil {
		msg.ReadBy = []string{msg.SenderID}
	}
	copied := *msg
	r.msgs[msg.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.msgs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *msg
	return &copied, nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.msgs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.msgs, id)
	return nil
}

func (r *fakeMessageRepo) ListBefore(_ context.Context, conversationID string, before time.Time, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Message
	for _, msg := range r.msgs {
		if msg.ConversationID != conversationID {
			continue
		}
		if !before.IsZero() && !msg.CreatedAt.Before(before) {
			continue
		}
		result = append(result, *msg)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, conversationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.msgs {
		if msg.ConversationID != conversationID || msg.ReadByUser(userID) {
			continue
		}
		msg.ReadBy = append(msg.ReadBy, userID)
	}
	return nil
}

func (r *fakeMessageRepo) HasUnreadForUser(ctx context.Context, userID string) (bool, error) {
	convs, err := r.convs.ListByParticipant(ctx, userID)
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.msgs {
		for _, conv := range convs {
			if msg.ConversationID == conv.ID && msg.SenderID != userID && !msg.ReadByUser(userID) {
				return true, nil
			}
		}
	}
	return false, nil
}
