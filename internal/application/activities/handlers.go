package activities

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/domain/entity"
	"github.com/reactivities/api/internal/domain/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Handlers holds the activity command/query handlers.
type Handlers struct {
	Activities repository.ActivityRepository
	Comments   repository.CommentRepository
	Users      repository.UserRepository
	Logger     *logrus.Logger
}

func NewHandlers(activities repository.ActivityRepository, comments repository.CommentRepository, users repository.UserRepository, logger *logrus.Logger) *Handlers {
	return &Handlers{Activities: activities, Comments: comments, Users: users, Logger: logger}
}

// RegisterHandlers binds every activity request type to its handler.
func RegisterHandlers(m *application.Mediator, h *Handlers) {
	application.Register(m, h.CreateActivity, application.WithValidation())
	application.Register(m, h.EditActivity, application.WithValidation())
	application.Register(m, h.DeleteActivity)
	application.Register(m, h.UpdateAttendance)
	application.Register(m, h.AddComment, application.WithValidation())
	application.Register(m, h.GetActivityList)
	application.Register(m, h.GetActivityDetails)
	application.Register(m, h.GetComments)
}

func (h *Handlers) CreateActivity(ctx context.Context, cmd CreateActivity) (string, error) {
	a := &entity.Activity{
		Title:       cmd.Title,
		Date:        cmd.Date,
		Description: cmd.Description,
		Category:    cmd.Category,
		City:        cmd.City,
		Venue:       cmd.Venue,
		Latitude:    cmd.Latitude,
		Longitude:   cmd.Longitude,
	}
	host := &entity.ActivityAttendee{UserID: cmd.UserID, IsHost: true}
	if err := h.Activities.Create(ctx, a, host); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (h *Handlers) EditActivity(ctx context.Context, cmd EditActivity) (application.Unit, error) {
	a, err := h.Activities.GetByID(ctx, cmd.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return application.Unit{}, application.NotFound("activity with id '%s' not found", cmd.ID)
		}
		return application.Unit{}, err
	}

	a.Title = cmd.Title
	a.Date = cmd.Date
	a.Description = cmd.Description
	a.Category = cmd.Category
	a.City = cmd.City
	a.Venue = cmd.Venue
	a.Latitude = cmd.Latitude
	a.Longitude = cmd.Longitude

	if err := h.Activities.Update(ctx, a); err != nil {
		return application.Unit{}, err
	}
	return application.Unit{}, nil
}

func (h *Handlers) DeleteActivity(ctx context.Context, cmd DeleteActivity) (application.Unit, error) {
	if err := h.Activities.Delete(ctx, cmd.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return application.Unit{}, application.NotFound("activity with id '%s' not found", cmd.ID)
		}
		return application.Unit{}, err
	}
	return application.Unit{}, nil
}

func (h *Handlers) UpdateAttendance(ctx context.Context, cmd UpdateAttendance) (application.Unit, error) {
	a, err := h.Activities.GetByID(ctx, cmd.ActivityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return application.Unit{}, application.NotFound("activity with id '%s' not found", cmd.ActivityID)
		}
		return application.Unit{}, err
	}

	att, err := h.Activities.Attendee(ctx, cmd.ActivityID, cmd.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if a.IsCancelled {
			return application.Unit{}, application.BadRequest("cannot join a cancelled activity")
		}
		join := &entity.ActivityAttendee{ActivityID: a.ID, UserID: cmd.UserID}
		if err := h.Activities.AddAttendee(ctx, join); err != nil {
			return application.Unit{}, err
		}
	case err != nil:
		return application.Unit{}, err
	case att.IsHost:
		a.IsCancelled = !a.IsCancelled
		if err := h.Activities.Update(ctx, a); err != nil {
			return application.Unit{}, err
		}
	default:
		if err := h.Activities.RemoveAttendee(ctx, cmd.ActivityID, cmd.UserID); err != nil {
			return application.Unit{}, err
		}
	}
	return application.Unit{}, nil
}

func (h *Handlers) AddComment(ctx context.Context, cmd AddComment) (CommentDTO, error) {
	if _, err := h.Activities.GetByID(ctx, cmd.ActivityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return CommentDTO{}, application.NotFound("activity not found")
		}
		return CommentDTO{}, err
	}

	user, err := h.Users.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return CommentDTO{}, application.BadRequest("user not found")
		}
		return CommentDTO{}, err
	}

	comment := &entity.Comment{
		ActivityID: cmd.ActivityID,
		UserID:     user.ID,
		Body:       cmd.Body,
	}
	if err := h.Comments.Create(ctx, comment); err != nil {
		return CommentDTO{}, err
	}

	return CommentDTO{
		ID:          comment.ID,
		ActivityID:  comment.ActivityID,
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		ImageURL:    user.ImageURL,
		Body:        comment.Body,
		CreatedAt:   comment.CreatedAt,
	}, nil
}

func (h *Handlers) GetActivityList(ctx context.Context, q GetActivityList) (ActivityPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	cursor := q.Cursor
	if cursor.IsZero() {
		cursor = time.Now().UTC()
	}

	// Fetch one extra row to know whether another page exists.
	items, err := h.Activities.List(ctx, cursor, q.AfterID, limit+1)
	if err != nil {
		return ActivityPage{}, err
	}

	page := ActivityPage{Items: make([]ActivityDTO, 0, len(items))}
	if len(items) > limit {
		items = items[:limit]
		last := items[limit-1]
		page.NextCursor = &PageCursor{Date: last.Date, ID: last.ID}
	}
	for i := range items {
		dto, err := h.project(ctx, &items[i])
		if err != nil {
			return ActivityPage{}, err
		}
		page.Items = append(page.Items, dto)
	}
	return page, nil
}

func (h *Handlers) GetActivityDetails(ctx context.Context, q GetActivityDetails) (ActivityDTO, error) {
	a, err := h.Activities.GetByID(ctx, q.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ActivityDTO{}, application.NotFound("activity with id '%s' not found", q.ID)
		}
		return ActivityDTO{}, err
	}
	return h.project(ctx, a)
}

func (h *Handlers) GetComments(ctx context.Context, q GetComments) ([]CommentDTO, error) {
	comments, err := h.Comments.ListByActivity(ctx, q.ActivityID)
	if err != nil {
		return nil, err
	}
	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentDTO{
			ID:          c.ID,
			ActivityID:  c.ActivityID,
			UserID:      c.UserID,
			DisplayName: c.DisplayName,
			ImageURL:    c.ImageURL,
			Body:        c.Body,
			CreatedAt:   c.CreatedAt,
		})
	}
	return out, nil
}

func (h *Handlers) project(ctx context.Context, a *entity.Activity) (ActivityDTO, error) {
	attendees, err := h.Activities.Attendees(ctx, a.ID)
	if err != nil {
		return ActivityDTO{}, err
	}

	dto := ActivityDTO{
		ID:          a.ID,
		Title:       a.Title,
		Date:        a.Date,
		Description: a.Description,
		Category:    a.Category,
		City:        a.City,
		Venue:       a.Venue,
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
		IsCancelled: a.IsCancelled,
		Attendees:   make([]AttendeeDTO, 0, len(attendees)),
	}
	for _, att := range attendees {
		if att.IsHost {
			dto.HostID = att.UserID
		}
		dto.Attendees = append(dto.Attendees, AttendeeDTO{
			ID:          att.UserID,
			DisplayName: att.DisplayName,
			Bio:         att.Bio,
			ImageURL:    att.ImageURL,
			IsHost:      att.IsHost,
			DateJoined:  att.DateJoined,
		})
	}
	return dto, nil
}
