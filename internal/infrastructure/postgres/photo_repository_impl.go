package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reactivities/api/internal/domain/entity"
	"github.com/reactivities/api/internal/domain/repository"
)

type PhotoRepository struct {
	pool *pgxpool.Pool
}

func NewPhotoRepository(pool *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

func (r *PhotoRepository) Create(ctx context.Context, p *entity.Photo) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO photos (user_id, url, public_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, p.UserID, p.URL, p.PublicID)
	return row.Scan(&p.ID, &p.CreatedAt)
}

func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*entity.Photo, error) {
	p := &entity.Photo{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, url, public_id, created_at FROM photos WHERE id = $1
	`, id)
	if err := row.Scan(&p.ID, &p.UserID, &p.URL, &p.PublicID, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PhotoRepository) ListByUser(ctx context.Context, userID string) ([]entity.Photo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, url, public_id, created_at
		FROM photos
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Photo, 0)
	for rows.Next() {
		var p entity.Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.URL, &p.PublicID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PhotoRepository = (*PhotoRepository)(nil)
