package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillmatch/skillmatch/internal/domain"
)

// ConversationRepository encapsulates conversation persistence.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	GetByParticipants(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error)
	SetLastMessage(ctx context.Context, conversationID, messageID string) error
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository instantiates repository.
func NewConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{pool: pool}
}

const conversationColumns = `id, participant_a, participant_b, last_message_id, created_at, updated_at`

func (r *conversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	const stmt = `
        INSERT INTO conversations (participant_a, participant_b)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, stmt,
		conv.ParticipantA,
		conv.ParticipantB,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	stmt := `SELECT ` + conversationColumns + ` FROM conversations WHERE id=$1`
	return r.fetchSingle(ctx, stmt, id)
}

func (r *conversationRepository) GetByParticipants(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	stmt := `SELECT ` + conversationColumns + ` FROM conversations
        WHERE (participant_a=$1 AND participant_b=$2) OR (participant_a=$2 AND participant_b=$1)`
	var conv domain.Conversation
	if err := r.pool.QueryRow(ctx, stmt, userA, userB).Scan(
		&conv.ID,
		&conv.ParticipantA,
		&conv.ParticipantB,
		&conv.LastMessageID,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) fetchSingle(ctx context.Context, stmt string, arg any) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.pool.QueryRow(ctx, stmt, arg).Scan(
		&conv.ID,
		&conv.ParticipantA,
		&conv.ParticipantB,
		&conv.LastMessageID,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	stmt := `SELECT ` + conversationColumns + ` FROM conversations
        WHERE participant_a=$1 OR participant_b=$1
        ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, stmt, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(
			&conv.ID,
			&conv.ParticipantA,
			&conv.ParticipantB,
			&conv.LastMessageID,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, conv)
	}
	return result, rows.Err()
}

func (r *conversationRepository) SetLastMessage(ctx context.Context, conversationID, messageID string) error {
	const stmt = `UPDATE conversations SET last_message_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, stmt, messageID, conversationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
