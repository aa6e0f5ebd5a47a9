package repository

import (
	"context"

	"github.com/reactivities/api/internal/domain/entity"
)

// PhotoRepository defines database operations for profile photos.
type PhotoRepository interface {
	Create(ctx context.Context, p *entity.Photo) error
	GetByID(ctx context.Context, id string) (*entity.Photo, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Photo, error)
	Delete(ctx context.Context, id string) error
}
