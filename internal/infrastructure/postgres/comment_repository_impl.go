package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reactivities/api/internal/domain/entity"
	"github.com/reactivities/api/internal/domain/repository"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (activity_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.ActivityID, c.UserID, c.Body)
	return row.Scan(&c.ID, &c.CreatedAt)
}

func (r *CommentRepository) ListByActivity(ctx context.Context, activityID string) ([]entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.activity_id, c.user_id, c.body, c.created_at,
		       u.display_name, u.image_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.activity_id = $1
		ORDER BY c.created_at DESC
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Comment, 0)
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.ActivityID, &c.UserID, &c.Body, &c.CreatedAt,
			&c.DisplayName, &c.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
