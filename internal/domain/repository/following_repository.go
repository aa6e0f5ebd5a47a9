package repository

import (
	"context"

	"github.com/reactivities/api/internal/domain/entity"
)

// FollowingRepository defines database operations for follow edges.
type FollowingRepository interface {
	Get(ctx context.Context, observerID, targetID string) (*entity.UserFollowing, error)
	Create(ctx context.Context, f *entity.UserFollowing) error
	Delete(ctx context.Context, observerID, targetID string) error

	// Followers lists users observing userID; Followings lists users
	// userID observes.
	Followers(ctx context.Context, userID string) ([]entity.User, error)
	Followings(ctx context.Context, userID string) ([]entity.User, error)
	Counts(ctx context.Context, userID string) (followers int, followings int, err error)
}
