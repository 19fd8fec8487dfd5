package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillmatch/skillmatch/internal/domain"
)

// MessageRepository encapsulates chat message persistence.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
	// ListBefore returns up to limit messages of a conversation older than
	// the given timestamp, newest first. A zero time means "from the top".
	ListBefore(ctx context.Context, conversationID string, before time.Time, limit int) ([]domain.Message, error)
	// MarkRead adds the user to read_by of every message in the conversation
	// that does not already contain them.
	MarkRead(ctx context.Context, conversationID, userID string) error
	// HasUnreadForUser reports whether any message in any of the user's
	// conversations lacks the user in read_by. Existence check only.
	HasUnreadForUser(ctx context.Context, userID string) (bool, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, conversation_id, sender_id, content, read_by, created_at`

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const stmt = `
        INSERT INTO messages (conversation_id, sender_id, content, read_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	readBy := msg.ReadBy
	if readBy == nil {
		readBy = []string{msg.SenderID}
	}
	return r.pool.QueryRow(ctx, stmt,
		msg.ConversationID,
		msg.SenderID,
		msg.Content,
		readBy,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	stmt := `SELECT ` + messageColumns + ` FROM messages WHERE id=$1`
	var msg domain.Message
	if err := r.pool.QueryRow(ctx, stmt, id).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.SenderID,
		&msg.Content,
		&msg.ReadBy,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	const stmt = `DELETE FROM messages WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, stmt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *messageRepository) ListBefore(ctx context.Context, conversationID string, before time.Time, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 30
	}

	base := `SELECT ` + messageColumns + ` FROM messages WHERE conversation_id=$1`
	args := []any{conversationID}
	if !before.IsZero() {
		args = append(args, before)
		base += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	stmt := fmt.Sprintf("%s ORDER BY created_at DESC LIMIT %d", base, limit)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationID, userID string) error {
	const stmt = `
        UPDATE messages
        SET read_by = array_append(read_by, $2)
        WHERE conversation_id=$1 AND NOT (read_by @> ARRAY[$2])`
	_, err := r.pool.Exec(ctx, stmt, conversationID, userID)
	return err
}

// hasUnreadStmt compares the user id against uuid columns, which pins $1 to
// uuid during parse analysis. The array element must be cast back to text or
// ARRAY[$1] becomes uuid[] and read_by @> fails to plan against TEXT[].
const hasUnreadStmt = `
        SELECT EXISTS (
            SELECT 1
            FROM messages m
            JOIN conversations c ON c.id = m.conversation_id
            WHERE (c.participant_a=$1 OR c.participant_b=$1)
              AND m.sender_id != $1
              AND NOT (m.read_by @> ARRAY[$1::text])
        )`

func (r *messageRepository) HasUnreadForUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, hasUnreadStmt, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanMessages(rows pgx.Rows) ([]domain.Message, error) {
	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.SenderID,
			&msg.Content,
			&msg.ReadBy,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
