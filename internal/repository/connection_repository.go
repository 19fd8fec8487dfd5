package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillmatch/skillmatch/internal/domain"
)

// ConnectionFilter captures connection listing parameters.
type ConnectionFilter struct {
	SenderID   *string
	ReceiverID *string
	// UserID matches either side of the connection.
	UserID   *string
	Statuses []domain.ConnectionStatus
	Limit    int
	Offset   int
}

// ConnectionRepository encapsulates connection persistence.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *domain.Connection) error
	GetByID(ctx context.Context, id string) (*domain.Connection, error)
	UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus) error
	// ExistsBetween checks both orderings of the pair. The check and the
	// subsequent insert are not atomic; concurrent mutual requests can both
	// pass.
	ExistsBetween(ctx context.Context, userA, userB string) (bool, error)
	HasPendingForReceiver(ctx context.Context, receiverID string) (bool, error)
	ListWithFilter(ctx context.Context, filter ConnectionFilter) ([]domain.Connection, error)
}

type connectionRepository struct {
	pool *pgxpool.Pool
}

// NewConnectionRepository instantiates repository.
func NewConnectionRepository(pool *pgxpool.Pool) ConnectionRepository {
	return &connectionRepository{pool: pool}
}

const connectionColumns = `id, sender_id, receiver_id, status, source, created_at, updated_at`

func (r *connectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	const stmt = `
        INSERT INTO connections (sender_id, receiver_id, status, source)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, stmt,
		conn.SenderID,
		conn.ReceiverID,
		conn.Status,
		conn.Source,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
}

func (r *connectionRepository) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	stmt := `SELECT ` + connectionColumns + ` FROM connections WHERE id=$1`
	var conn domain.Connection
	if err := r.pool.QueryRow(ctx, stmt, id).Scan(
		&conn.ID,
		&conn.SenderID,
		&conn.ReceiverID,
		&conn.Status,
		&conn.Source,
		&conn.CreatedAt,
		&conn.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus) error {
	const stmt = `UPDATE connections SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, stmt, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *connectionRepository) ExistsBetween(ctx context.Context, userA, userB string) (bool, error) {
	const stmt = `
        SELECT EXISTS (
            SELECT 1 FROM connections
            WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, stmt, userA, userB).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *connectionRepository) HasPendingForReceiver(ctx context.Context, receiverID string) (bool, error) {
	const stmt = `
        SELECT EXISTS (
            SELECT 1 FROM connections WHERE receiver_id=$1 AND status=$2
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, stmt, receiverID, domain.ConnectionStatusPending).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *connectionRepository) ListWithFilter(ctx context.Context, filter ConnectionFilter) ([]domain.Connection, error) {
	base := `SELECT ` + connectionColumns + ` FROM connections`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SenderID != nil {
		args = append(args, *filter.SenderID)
		clauses = append(clauses, fmt.Sprintf("sender_id=$%d", len(args)))
	}
	if filter.ReceiverID != nil {
		args = append(args, *filter.ReceiverID)
		clauses = append(clauses, fmt.Sprintf("receiver_id=$%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("(sender_id=$%d OR receiver_id=$%d)", len(args), len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	stmt := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Connection
	for rows.Next() {
		var conn domain.Connection
		if err := rows.Scan(
			&conn.ID,
			&conn.SenderID,
			&conn.ReceiverID,
			&conn.Status,
			&conn.Source,
			&conn.CreatedAt,
			&conn.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, conn)
	}
	return result, rows.Err()
}
