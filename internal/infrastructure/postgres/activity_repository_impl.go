package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reactivities/api/internal/domain/entity"
	"github.com/reactivities/api/internal/domain/repository"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

const activityColumns = `id, title, date, description, category, city, venue, latitude, longitude, is_cancelled, created_at, updated_at`

func scanActivity(row pgx.Row, a *entity.Activity) error {
	return row.Scan(&a.ID, &a.Title, &a.Date, &a.Description, &a.Category,
		&a.City, &a.Venue, &a.Latitude, &a.Longitude, &a.IsCancelled,
		&a.CreatedAt, &a.UpdatedAt)
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity, host *entity.ActivityAttendee) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO activities (title, date, description, category, city, venue, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, a.Title, a.Date, a.Description, a.Category, a.City, a.Venue, a.Latitude, a.Longitude)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return err
	}

	host.ActivityID = a.ID
	if _, err := tx.Exec(ctx, `
		INSERT INTO activity_attendees (activity_id, user_id, is_host)
		VALUES ($1, $2, TRUE)
	`, a.ID, host.UserID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*entity.Activity, error) {
	a := &entity.Activity{}
	row := r.pool.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id)
	if err := scanActivity(row, a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *entity.Activity) error {
	a.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE activities
		SET title = $1, date = $2, description = $3, category = $4, city = $5,
		    venue = $6, latitude = $7, longitude = $8, is_cancelled = $9, updated_at = $10
		WHERE id = $11
	`, a.Title, a.Date, a.Description, a.Category, a.City, a.Venue,
		a.Latitude, a.Longitude, a.IsCancelled, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, cursor time.Time, afterID string, limit int) ([]entity.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE date >= $1
		ORDER BY date ASC, id ASC
		LIMIT $2`
	args := []any{cursor, limit}
	if afterID != "" {
		query = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE date > $1 OR (date = $1 AND id > $2)
		ORDER BY date ASC, id ASC
		LIMIT $3`
		args = []any{cursor, afterID, limit}
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

func (r *ActivityRepository) ListForUser(ctx context.Context, userID string, filter repository.UserActivityFilter, now time.Time) ([]entity.Activity, error) {
	base := `
		SELECT ` + activityColumns + `
		FROM activities a
		WHERE EXISTS (
			SELECT 1 FROM activity_attendees aa
			WHERE aa.activity_id = a.id AND aa.user_id = $1%s
		)%s
		ORDER BY a.date ASC`

	var query string
	args := []any{userID}
	switch filter {
	case repository.FilterPast:
		query = fmt.Sprintf(base, "", " AND a.date <= $2")
		args = append(args, now)
	case repository.FilterHosting:
		query = fmt.Sprintf(base, " AND aa.is_host", "")
	case repository.FilterUpcoming:
		query = fmt.Sprintf(base, "", " AND a.date >= $2")
		args = append(args, now)
	default:
		return nil, fmt.Errorf("unknown activity filter %q", filter)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

func collectActivities(rows pgx.Rows) ([]entity.Activity, error) {
	out := make([]entity.Activity, 0)
	for rows.Next() {
		var a entity.Activity
		if err := scanActivity(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ActivityRepository) Attendees(ctx context.Context, activityID string) ([]entity.ActivityAttendee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT aa.activity_id, aa.user_id, aa.is_host, aa.date_joined,
		       u.display_name, u.image_url, u.bio
		FROM activity_attendees aa
		JOIN users u ON u.id = aa.user_id
		WHERE aa.activity_id = $1
		ORDER BY aa.date_joined ASC
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.ActivityAttendee, 0)
	for rows.Next() {
		var a entity.ActivityAttendee
		if err := rows.Scan(&a.ActivityID, &a.UserID, &a.IsHost, &a.DateJoined,
			&a.DisplayName, &a.ImageURL, &a.Bio); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ActivityRepository) Attendee(ctx context.Context, activityID, userID string) (*entity.ActivityAttendee, error) {
	a := &entity.ActivityAttendee{}
	row := r.pool.QueryRow(ctx, `
		SELECT activity_id, user_id, is_host, date_joined
		FROM activity_attendees
		WHERE activity_id = $1 AND user_id = $2
	`, activityID, userID)
	if err := row.Scan(&a.ActivityID, &a.UserID, &a.IsHost, &a.DateJoined); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) AddAttendee(ctx context.Context, att *entity.ActivityAttendee) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activity_attendees (activity_id, user_id, is_host)
		VALUES ($1, $2, $3)
		RETURNING date_joined
	`, att.ActivityID, att.UserID, att.IsHost)
	return row.Scan(&att.DateJoined)
}

func (r *ActivityRepository) RemoveAttendee(ctx context.Context, activityID, userID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM activity_attendees WHERE activity_id = $1 AND user_id = $2
	`, activityID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)
