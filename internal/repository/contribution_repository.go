package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connect4change/platform/internal/domain"
)

// ContributionRepository is the append-only participation ledger. There is
// deliberately no update or delete; corrections are compensating entries.
type ContributionRepository interface {
	Create(ctx context.Context, contribution *domain.Contribution) error
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Contribution, error)
}

type contributionRepository struct {
	pool *pgxpool.Pool
}

// NewContributionRepository builds repository.
func NewContributionRepository(pool *pgxpool.Pool) ContributionRepository {
	return &contributionRepository{pool: pool}
}

func (r *contributionRepository) Create(ctx context.Context, contribution *domain.Contribution) error {
	const query = `
        INSERT INTO contributions (volunteer_id, project_id, project_title, organization_name,
            date, hours, description, status, skills, impact, community)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		contribution.VolunteerID,
		contribution.ProjectID,
		contribution.ProjectTitle,
		contribution.OrganizationName,
		contribution.Date,
		contribution.Hours,
		contribution.Description,
		contribution.Status,
		contribution.Skills,
		contribution.Impact,
		contribution.Community,
	).Scan(&contribution.ID, &contribution.CreatedAt)
}

func (r *contributionRepository) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Contribution, error) {
	const query = `
        SELECT id, volunteer_id, project_id, project_title, organization_name,
               date, hours, description, status, skills, impact, community, created_at
        FROM contributions WHERE volunteer_id=$1 ORDER BY date DESC`
	rows, err := r.pool.Query(ctx, query, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(
			&c.ID,
			&c.VolunteerID,
			&c.ProjectID,
			&c.ProjectTitle,
			&c.OrganizationName,
			&c.Date,
			&c.Hours,
			&c.Description,
			&c.Status,
			&c.Skills,
			&c.Impact,
			&c.Community,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
