package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connect4change/platform/internal/domain"
)

// ProjectRepository encapsulates project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	// CreateFromIssue inserts the project and flips the source issue to
	// in-progress in a single transaction, so a failed insert never leaves
	// the issue stuck in-progress.
	CreateFromIssue(ctx context.Context, project *domain.Project, issueID string) error
	Update(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListAll(ctx context.Context) ([]domain.Project, error)
	ListByOrganization(ctx context.Context, orgID string) ([]domain.Project, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, title, description, organization_id, category,
       lng, lat, address, start_date, end_date, image_url, volunteers_needed,
       status, skills, related_issue_id, created_at, updated_at`

const projectInsert = `
        INSERT INTO projects (title, description, organization_id, category, lng, lat, address,
            start_date, end_date, image_url, volunteers_needed, status, skills, related_issue_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.pool.QueryRow(ctx, projectInsert, projectInsertArgs(project)...).
		Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) CreateFromIssue(ctx context.Context, project *domain.Project, issueID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.QueryRow(ctx, projectInsert, projectInsertArgs(project)...).
		Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE issues SET status='in-progress', updated_at=NOW() WHERE id=$1`, issueID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func projectInsertArgs(project *domain.Project) []any {
	return []any{
		project.Title,
		project.Description,
		project.OrganizationID,
		project.Category,
		project.Location.Lng,
		project.Location.Lat,
		project.Location.Address,
		project.StartDate,
		project.EndDate,
		project.ImageURL,
		project.VolunteersNeeded,
		project.Status,
		project.Skills,
		project.RelatedIssueID,
	}
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `
        UPDATE projects SET title=$1, description=$2, category=$3, lng=$4, lat=$5, address=$6,
            start_date=$7, end_date=$8, image_url=$9, volunteers_needed=$10, status=$11,
            skills=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		project.Title,
		project.Description,
		project.Category,
		project.Location.Lng,
		project.Location.Lat,
		project.Location.Address,
		project.StartDate,
		project.EndDate,
		project.ImageURL,
		project.VolunteersNeeded,
		project.Status,
		project.Skills,
		project.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	var project domain.Project
	if err := r.pool.QueryRow(ctx, query, id).Scan(scanTargets(&project)...); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListAll(ctx context.Context) ([]domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *projectRepository) ListByOrganization(ctx context.Context, orgID string) ([]domain.Project, error) {
	const query = `SELECT ` + projectColumns + `
        FROM projects WHERE organization_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanTargets(project *domain.Project) []any {
	return []any{
		&project.ID,
		&project.Title,
		&project.Description,
		&project.OrganizationID,
		&project.Category,
		&project.Location.Lng,
		&project.Location.Lat,
		&project.Location.Address,
		&project.StartDate,
		&project.EndDate,
		&project.ImageURL,
		&project.VolunteersNeeded,
		&project.Status,
		&project.Skills,
		&project.RelatedIssueID,
		&project.CreatedAt,
		&project.UpdatedAt,
	}
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	var result []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(scanTargets(&project)...); err != nil {
			return nil, err
		}
		result = append(result, project)
	}
	return result, rows.Err()
}
