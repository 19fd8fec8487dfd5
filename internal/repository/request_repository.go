package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillmatch/skillmatch/internal/domain"
)

// RequestFilter captures collaboration-request listing parameters.
type RequestFilter struct {
	CreatorID *string
	Statuses  []domain.RequestStatus
	Tags      []domain.RequestTag
	Limit     int
	Offset    int
}

// RequestRepository encapsulates collaboration-request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
	AddInterest(ctx context.Context, requestID, userID string) (bool, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, creator_id, description, skills, tags, interested_user_ids, status, created_at, updated_at`

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	const stmt = `
        INSERT INTO requests (creator_id, description, skills, tags, interested_user_ids, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	tags := make([]string, len(request.Tags))
	for i, t := range request.Tags {
		tags[i] = string(t)
	}
	interested := request.InterestedUserIDs
	if interested == nil {
		interested = []string{}
	}
	return r.pool.QueryRow(ctx, stmt,
		request.CreatorID,
		request.Description,
		request.Skills,
		tags,
		interested,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	stmt := `SELECT ` + requestColumns + ` FROM requests WHERE id=$1`
	rows, err := r.pool.Query(ctx, stmt, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result, err := scanRequests(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &result[0], nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	const stmt = `UPDATE requests SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, stmt, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AddInterest appends the user to interested_user_ids unless already present.
// Returns false when the user was already counted.
func (r *requestRepository) AddInterest(ctx context.Context, requestID, userID string) (bool, error) {
	const stmt = `
        UPDATE requests
        SET interested_user_ids = array_append(interested_user_ids, $2), updated_at=NOW()
        WHERE id=$1 AND NOT (interested_user_ids @> ARRAY[$2])`
	cmd, err := r.pool.Exec(ctx, stmt, requestID, userID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	base := `SELECT ` + requestColumns + ` FROM requests`
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
	if len(filter.Tags) > 0 {
		tags := make([]string, len(filter.Tags))
		for i, t := range filter.Tags {
			tags[i] = string(t)
		}
		args = append(args, tags)
		clauses = append(clauses, fmt.Sprintf("tags && $%d", len(args)))
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
	return scanRequests(rows)
}

func scanRequests(rows pgx.Rows) ([]domain.Request, error) {
	var result []domain.Request
	for rows.Next() {
		var req domain.Request
		var tags []string
		if err := rows.Scan(
			&req.ID,
			&req.CreatorID,
			&req.Description,
			&req.Skills,
			&tags,
			&req.InterestedUserIDs,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
		); err != nil {
			return nil, err
		}
		req.Tags = make([]domain.RequestTag, len(tags))
		for i, t := range tags {
			req.Tags[i] = domain.RequestTag(t)
		}
		result = append(result, req)
	}
	return result, rows.Err()
}
