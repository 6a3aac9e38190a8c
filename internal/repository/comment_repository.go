package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connect4change/platform/internal/domain"
)

// CommentRepository manages a project's append-only comment thread.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO project_comments (project_id, author_id, text)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.ProjectID,
		comment.AuthorID,
		comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, project_id, author_id, text, created_at
        FROM project_comments WHERE project_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ProjectID,
			&comment.AuthorID,
			&comment.Text,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
