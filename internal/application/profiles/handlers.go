package profiles

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/domain/entity"
	"github.com/reactivities/api/internal/domain/repository"
	"github.com/reactivities/api/internal/infrastructure/search"
)

// PhotoStore is the narrow capability interface over the external photo
// provider: store an object and get its URL/identifier back, or delete
// it by identifier.
type PhotoStore interface {
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (url, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// Handlers holds the profile command/query handlers.
type Handlers struct {
	Users      repository.UserRepository
	Photos     repository.PhotoRepository
	Followings repository.FollowingRepository
	Activities repository.ActivityRepository
	Store      PhotoStore
	Index      *search.ProfileIndex
	Logger     *logrus.Logger
}

func NewHandlers(
	users repository.UserRepository,
	photos repository.PhotoRepository,
	followings repository.FollowingRepository,
	activities repository.ActivityRepository,
	store PhotoStore,
	index *search.ProfileIndex,
	logger *logrus.Logger,
) *Handlers {
	return &Handlers{
		Users:      users,
		Photos:     photos,
		Followings: followings,
		Activities: activities,
		Store:      store,
		Index:      index,
		Logger:     logger,
	}
}

// RegisterHandlers binds every profile request type to its handler.
func RegisterHandlers(m *application.Mediator, h *Handlers) {
	application.Register(m, h.GetProfile)
	application.Register(m, h.EditProfile, application.WithValidation())
	application.Register(m, h.AddPhoto)
	application.Register(m, h.DeletePhoto)
	application.Register(m, h.SetMainPhoto)
	application.Register(m, h.GetProfilePhotos)
	application.Register(m, h.FollowToggle)
	application.Register(m, h.GetFollowings)
	application.Register(m, h.GetUserActivities)
	application.Register(m, h.SearchProfiles)
}

func (h *Handlers) GetProfile(ctx context.Context, q GetProfile) (Profile, error) {
	u, err := h.Users.GetByID(ctx, q.ProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, application.NotFound("profile with id '%s' not found", q.ProfileID)
		}
		return Profile{}, err
	}

	followers, followings, err := h.Followings.Counts(ctx, u.ID)
	if err != nil {
		return Profile{}, err
	}

	p := Profile{
		ID:             u.ID,
		DisplayName:    u.DisplayName,
		Bio:            u.Bio,
		ImageURL:       u.ImageURL,
		FollowersCount: followers,
		FollowingCount: followings,
	}
	if q.UserID != "" && q.UserID != u.ID {
		if _, err := h.Followings.Get(ctx, q.UserID, u.ID); err == nil {
			p.Following = true
		} else if !errors.Is(err, repository.ErrNotFound) {
			return Profile{}, err
		}
	}
	return p, nil
}

func (h *Handlers) EditProfile(ctx context.Context, cmd EditProfile) (application.Unit, error) {
	u, err := h.Users.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return application.Unit{}, application.NotFound("user not found")
		}
		return application.Unit{}, err
	}
	u.DisplayName = cmd.DisplayName
	u.Bio = cmd.Bio
	if err := h.Users.Update(ctx, u); err != nil {
		return application.Unit{}, err
	}
	_ = h.Index.IndexUser(ctx, u)
	return application.Unit{}, nil
}

func (h *Handlers) AddPhoto(ctx context.Context, cmd AddPhoto) (PhotoDTO, error) {
	if cmd.FileName == "" || cmd.File == nil {
		return PhotoDTO{}, application.BadRequest("photo file is required")
	}

	url, publicID, err := h.Store.Upload(ctx, cmd.UserID, cmd.FileName, cmd.ContentType, cmd.File)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", cmd.UserID).Error("photo upload failed")
		}
		return PhotoDTO{}, application.BadRequest("photo upload failed")
	}

	u, err := h.Users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return PhotoDTO{}, err
	}

	photo := &entity.Photo{UserID: u.ID, URL: url, PublicID: publicID}
	if err := h.Photos.Create(ctx, photo); err != nil {
		return PhotoDTO{}, err
	}

	// First uploaded photo becomes the main photo.
	if u.ImageURL == "" {
		u.ImageURL = photo.URL
		if err := h.Users.Update(ctx, u); err != nil {
			return PhotoDTO{}, err
		}
		_ = h.Index.IndexUser(ctx, u)
	}

	return PhotoDTO{ID: photo.ID, URL: photo.URL, CreatedAt: photo.CreatedAt}, nil
}

func (h *Handlers) DeletePhoto(ctx context.Context, cmd DeletePhoto) (application.Unit, error) {
	photo, err := h.ownedPhoto(ctx, cmd.UserID, cmd.PhotoID)
	if err != nil {
		return application.Unit{}, err
	}

	u, err := h.Users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return application.Unit{}, err
	}
	// Main-photo check is on the URL, matching the profile image mirror.
	if photo.URL == u.ImageURL {
		return application.Unit{}, application.BadRequest("cannot delete main photo")
	}

	if err := h.Store.Delete(ctx, photo.PublicID); err != nil {
		return application.Unit{}, err
	}
	if err := h.Photos.Delete(ctx, photo.ID); err != nil {
		return application.Unit{}, err
	}
	return application.Unit{}, nil
}

func (h *Handlers) SetMainPhoto(ctx context.Context, cmd SetMainPhoto) (application.Unit, error) {
	photo, err := h.ownedPhoto(ctx, cmd.UserID, cmd.PhotoID)
	if err != nil {
		return application.Unit{}, err
	}

	u, err := h.Users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return application.Unit{}, err
	}
	u.ImageURL = photo.URL
	if err := h.Users.Update(ctx, u); err != nil {
		return application.Unit{}, err
	}
	_ = h.Index.IndexUser(ctx, u)
	return application.Unit{}, nil
}

// ownedPhoto loads a photo and verifies it belongs to userID. A photo
// of another user reads the same as a missing one.
func (h *Handlers) ownedPhoto(ctx context.Context, userID, photoID string) (*entity.Photo, error) {
	photo, err := h.Photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, application.BadRequest("photo not found")
		}
		return nil, err
	}
	if photo.UserID != userID {
		return nil, application.BadRequest("photo not found")
	}
	return photo, nil
}

func (h *Handlers) GetProfilePhotos(ctx context.Context, q GetProfilePhotos) ([]PhotoDTO, error) {
	photos, err := h.Photos.ListByUser(ctx, q.ProfileID)
	if err != nil {
		return nil, err
	}
	out := make([]PhotoDTO, 0, len(photos))
	for _, p := range photos {
		out = append(out, PhotoDTO{ID: p.ID, URL: p.URL, CreatedAt: p.CreatedAt})
	}
	return out, nil
}

func (h *Handlers) FollowToggle(ctx context.Context, cmd FollowToggle) (application.Unit, error) {
	if cmd.UserID == cmd.TargetID {
		return application.Unit{}, application.BadRequest("cannot follow yourself")
	}
	if _, err := h.Users.GetByID(ctx, cmd.TargetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return application.Unit{}, application.BadRequest("target user not found")
		}
		return application.Unit{}, err
	}

	_, err := h.Followings.Get(ctx, cmd.UserID, cmd.TargetID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		edge := &entity.UserFollowing{ObserverID: cmd.UserID, TargetID: cmd.TargetID}
		if err := h.Followings.Create(ctx, edge); err != nil {
			return application.Unit{}, err
		}
	case err != nil:
		return application.Unit{}, err
	default:
		if err := h.Followings.Delete(ctx, cmd.UserID, cmd.TargetID); err != nil {
			return application.Unit{}, err
		}
	}
	return application.Unit{}, nil
}

func (h *Handlers) GetFollowings(ctx context.Context, q GetFollowings) ([]Profile, error) {
	var (
		users []entity.User
		err   error
	)
	switch q.Predicate {
	case PredicateFollowers:
		users, err = h.Followings.Followers(ctx, q.ProfileID)
	case PredicateFollowings:
		users, err = h.Followings.Followings(ctx, q.ProfileID)
	default:
		return nil, application.BadRequest("unknown follow predicate")
	}
	if err != nil {
		return nil, err
	}

	out := make([]Profile, 0, len(users))
	for _, u := range users {
		out = append(out, Profile{
			ID:          u.ID,
			DisplayName: u.DisplayName,
			Bio:         u.Bio,
			ImageURL:    u.ImageURL,
		})
	}
	return out, nil
}

func (h *Handlers) GetUserActivities(ctx context.Context, q GetUserActivities) ([]UserActivityDTO, error) {
	items, err := h.Activities.ListForUser(ctx, q.ProfileID, q.Filter, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	out := make([]UserActivityDTO, 0, len(items))
	for _, a := range items {
		out = append(out, UserActivityDTO{ID: a.ID, Title: a.Title, Category: a.Category, Date: a.Date})
	}
	return out, nil
}

func (h *Handlers) SearchProfiles(ctx context.Context, q SearchProfiles) ([]search.Hit, error) {
	return h.Index.Search(ctx, q.Query, q.Size)
}
