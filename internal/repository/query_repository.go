package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillmatch/skillmatch/internal/domain"
)

// QueryFilter captures query-board listing parameters.
type QueryFilter struct {
	CreatorID  *string
	Statuses   []domain.QueryStatus
	SearchTerm *string
	Limit      int
	Offset     int
}

// QueryRepository encapsulates query-board persistence.
type QueryRepository interface {
	Create(ctx context.Context, query *domain.Query) error
	GetByID(ctx context.Context, id string) (*domain.Query, error)
	UpdateStatus(ctx context.Context, id string, status domain.QueryStatus) error
	ListWithFilter(ctx context.Context, filter QueryFilter) ([]domain.Query, error)
	AddAnswer(ctx context.Context, answer *domain.Answer) error
	GetAnswer(ctx context.Context, queryID, answerID string) (*domain.Answer, error)
	SetAnswerLiked(ctx context.Context, answerID string, liked bool) error
	ListAnswers(ctx context.Context, queryID string) ([]domain.Answer, error)
}

type queryRepository struct {
	pool *pgxpool.Pool
}

// NewQueryRepository instantiates repository.
func NewQueryRepository(pool *pgxpool.Pool) QueryRepository {
	return &queryRepository{pool: pool}
}

const queryColumns = `id, creator_id, title, description, skills, status, created_at, updated_at`

func (r *queryRepository) Create(ctx context.Context, query *domain.Query) error {
	const stmt = `
        INSERT INTO queries (creator_id, title, description, skills, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, stmt,
		query.CreatorID,
		query.Title,
		query.Description,
		query.Skills,
		query.Status,
	).Scan(&query.ID, &query.CreatedAt, &query.UpdatedAt)
}

func (r *queryRepository) GetByID(ctx context.Context, id string) (*domain.Query, error) {
	stmt := `SELECT ` + queryColumns + ` FROM queries WHERE id=$1`
	var q domain.Query
	if err := r.pool.QueryRow(ctx, stmt, id).Scan(
		&q.ID,
		&q.CreatorID,
		&q.Title,
		&q.Description,
		&q.Skills,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *queryRepository) UpdateStatus(ctx context.Context, id string, status domain.QueryStatus) error {
	const stmt = `UPDATE queries SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, stmt, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *queryRepository) ListWithFilter(ctx context.Context, filter QueryFilter) ([]domain.Query, error) {
	base := `SELECT ` + queryColumns + ` FROM queries`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	stmt := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Query
	for rows.Next() {
		var q domain.Query
		if err := rows.Scan(
			&q.ID,
			&q.CreatorID,
			&q.Title,
			&q.Description,
			&q.Skills,
			&q.Status,
			&q.CreatedAt,
			&q.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

func (r *queryRepository) AddAnswer(ctx context.Context, answer *domain.Answer) error {
	const stmt = `
        INSERT INTO answers (query_id, responder_id, content, liked)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, stmt,
		answer.QueryID,
		answer.ResponderID,
		answer.Content,
		answer.Liked,
	).Scan(&answer.ID, &answer.CreatedAt)
}

func (r *queryRepository) GetAnswer(ctx context.Context, queryID, answerID string) (*domain.Answer, error) {
	const stmt = `
        SELECT id, query_id, responder_id, content, liked, created_at
        FROM answers WHERE id=$1 AND query_id=$2`
	var a domain.Answer
	if err := r.pool.QueryRow(ctx, stmt, answerID, queryID).Scan(
		&a.ID,
		&a.QueryID,
		&a.ResponderID,
		&a.Content,
		&a.Liked,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *queryRepository) SetAnswerLiked(ctx context.Context, answerID string, liked bool) error {
	const stmt = `UPDATE answers SET liked=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, stmt, liked, answerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *queryRepository) ListAnswers(ctx context.Context, queryID string) ([]domain.Answer, error) {
	const stmt = `
        SELECT id, query_id, responder_id, content, liked, created_at
        FROM answers WHERE query_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, stmt, queryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(
			&a.ID,
			&a.QueryID,
			&a.ResponderID,
			&a.Content,
			&a.Liked,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
