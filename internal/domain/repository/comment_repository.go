package repository

import (
	"context"

	"github.com/reactivities/api/internal/domain/entity"
)

// CommentRepository defines database operations for activity comments.
type CommentRepository interface {
	// Create inserts the comment and fills ID and CreatedAt.
	Create(ctx context.Context, c *entity.Comment) error
	// ListByActivity returns comments newest-first with author fields
	// populated.
	ListByActivity(ctx context.Context, activityID string) ([]entity.Comment, error)
}
