package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connect4change/platform/internal/domain"
)

// ProjectEventRepository manages scheduled project activities.
type ProjectEventRepository interface {
	Create(ctx context.Context, event *domain.ProjectEvent) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectEvent, error)
}

type projectEventRepository struct {
	pool *pgxpool.Pool
}

// NewProjectEventRepository builds repository.
func NewProjectEventRepository(pool *pgxpool.Pool) ProjectEventRepository {
	return &projectEventRepository{pool: pool}
}

func (r *projectEventRepository) Create(ctx context.Context, event *domain.ProjectEvent) error {
	const query = `
        INSERT INTO project_events (project_id, title, description, date, location, duration_hours)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		event.ProjectID,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.DurationHours,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *projectEventRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectEvent, error) {
	const query = `
        SELECT id, project_id, title, description, date, location, duration_hours, created_at
        FROM project_events WHERE project_id=$1 ORDER BY date ASC`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProjectEvent
	for rows.Next() {
		var event domain.ProjectEvent
		if err := rows.Scan(
			&event.ID,
			&event.ProjectID,
			&event.Title,
			&event.Description,
			&event.Date,
			&event.Location,
			&event.DurationHours,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
