package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connect4change/platform/internal/domain"
)

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListOpen(ctx context.Context) ([]domain.Issue, error)
	ListByReporter(ctx context.Context, reporterID string) ([]domain.Issue, error)
	FindNear(ctx context.Context, point domain.Point, radiusMeters float64) ([]domain.Issue, error)
	UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueColumns = `id, reporter_id, title, description, category, image_url,
       lng, lat, address, status, created_at, updated_at`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (reporter_id, title, description, category, image_url, lng, lat, address, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.ReporterID,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.ImageURL,
		issue.Location.Lng,
		issue.Location.Lat,
		issue.Location.Address,
		issue.Status,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	const query = `SELECT ` + issueColumns + ` FROM issues WHERE id=$1`
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&issue.ID,
		&issue.ReporterID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.ImageURL,
		&issue.Location.Lng,
		&issue.Location.Lat,
		&issue.Location.Address,
		&issue.Status,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) ListOpen(ctx context.Context) ([]domain.Issue, error) {
	const query = `SELECT ` + issueColumns + `
        FROM issues WHERE status <> 'in-progress' ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) ListByReporter(ctx context.Context, reporterID string) ([]domain.Issue, error) {
	const query = `SELECT ` + issueColumns + `
        FROM issues WHERE reporter_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, reporterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

// FindNear orders issues by ascending great-circle distance computed in SQL.
func (r *issueRepository) FindNear(ctx context.Context, point domain.Point, radiusMeters float64) ([]domain.Issue, error) {
	const query = `
        SELECT id, reporter_id, title, description, category, image_url,
               lng, lat, address, status, created_at, updated_at
        FROM (
            SELECT *,
                   6371000 * acos(least(1.0,
                       cos(radians($1)) * cos(radians(lat)) * cos(radians(lng) - radians($2)) +
                       sin(radians($1)) * sin(radians(lat)))) AS distance_m
            FROM issues
        ) nearby
        WHERE distance_m <= $3
        ORDER BY distance_m ASC`
	rows, err := r.pool.Query(ctx, query, point.Lat, point.Lng, radiusMeters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error {
	const query = `UPDATE issues SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.ReporterID,
			&issue.Title,
			&issue.Description,
			&issue.Category,
			&issue.ImageURL,
			&issue.Location.Lng,
			&issue.Location.Lat,
			&issue.Location.Address,
			&issue.Status,
			&issue.CreatedAt,
			&issue.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}
