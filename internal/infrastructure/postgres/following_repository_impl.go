package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reactivities/api/internal/domain/entity"
	"github.com/reactivities/api/internal/domain/repository"
)

type FollowingRepository struct {
	pool *pgxpool.Pool
}

func NewFollowingRepository(pool *pgxpool.Pool) *FollowingRepository {
	return &FollowingRepository{pool: pool}
}

func (r *FollowingRepository) Get(ctx context.Context, observerID, targetID string) (*entity.UserFollowing, error) {
	f := &entity.UserFollowing{}
	row := r.pool.QueryRow(ctx, `
		SELECT observer_id, target_id, created_at
		FROM user_followings
		WHERE observer_id = $1 AND target_id = $2
	`, observerID, targetID)
	if err := row.Scan(&f.ObserverID, &f.TargetID, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *FollowingRepository) Create(ctx context.Context, f *entity.UserFollowing) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_followings (observer_id, target_id)
		VALUES ($1, $2)
		RETURNING created_at
	`, f.ObserverID, f.TargetID)
	return row.Scan(&f.CreatedAt)
}

func (r *FollowingRepository) Delete(ctx context.Context, observerID, targetID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM user_followings WHERE observer_id = $1 AND target_id = $2
	`, observerID, targetID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

const followUserColumns = `u.id, u.email, u.password_hash, u.display_name, u.bio, u.image_url, u.is_verified, u.created_at, u.updated_at`

func (r *FollowingRepository) Followers(ctx context.Context, userID string) ([]entity.User, error) {
	return r.queryUsers(ctx, `
		SELECT `+followUserColumns+`
		FROM user_followings f
		JOIN users u ON u.id = f.observer_id
		WHERE f.target_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

func (r *FollowingRepository) Followings(ctx context.Context, userID string) ([]entity.User, error) {
	return r.queryUsers(ctx, `
		SELECT `+followUserColumns+`
		FROM user_followings f
		JOIN users u ON u.id = f.target_id
		WHERE f.observer_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

func (r *FollowingRepository) queryUsers(ctx context.Context, query, userID string) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.Bio,
			&u.ImageURL, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *FollowingRepository) Counts(ctx context.Context, userID string) (int, int, error) {
	var followers, followings int
	row := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM user_followings WHERE target_id = $1),
			(SELECT count(*) FROM user_followings WHERE observer_id = $1)
	`, userID)
	if err := row.Scan(&followers, &followings); err != nil {
		return 0, 0, err
	}
	return followers, followings, nil
}

var _ repository.FollowingRepository = (*FollowingRepository)(nil)
