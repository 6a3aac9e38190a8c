package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connect4change/platform/internal/domain"
)

// VolunteerRepository manages project membership records. The unique index
// on (project_id, volunteer_id) makes concurrent duplicate joins fail at
// the storage layer rather than relying on a read-then-write check.
type VolunteerRepository interface {
	Create(ctx context.Context, membership *domain.VolunteerMembership) error
	ListByProject(ctx context.Context, projectID string) ([]domain.VolunteerMembership, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
}

type volunteerRepository struct {
	pool *pgxpool.Pool
}

// NewVolunteerRepository builds repository.
func NewVolunteerRepository(pool *pgxpool.Pool) VolunteerRepository {
	return &volunteerRepository{pool: pool}
}

func (r *volunteerRepository) Create(ctx context.Context, membership *domain.VolunteerMembership) error {
	const query = `
        INSERT INTO project_volunteers (project_id, volunteer_id, status, hours)
        VALUES ($1,$2,$3,$4)
        RETURNING id, joined_at`
	return r.pool.QueryRow(ctx, query,
		membership.ProjectID,
		membership.VolunteerID,
		membership.Status,
		membership.Hours,
	).Scan(&membership.ID, &membership.JoinedAt)
}

func (r *volunteerRepository) ListByProject(ctx context.Context, projectID string) ([]domain.VolunteerMembership, error) {
	const query = `
        SELECT id, project_id, volunteer_id, joined_at, status, hours
        FROM project_volunteers WHERE project_id=$1 ORDER BY joined_at ASC`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VolunteerMembership
	for rows.Next() {
		var m domain.VolunteerMembership
		if err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.VolunteerID,
			&m.JoinedAt,
			&m.Status,
			&m.Hours,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *volunteerRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	const query = `SELECT COUNT(*) FROM project_volunteers WHERE project_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
