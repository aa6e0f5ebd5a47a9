package repository

import (
	"context"
	"time"

	"github.com/reactivities/api/internal/domain/entity"
)

// UserActivityFilter selects which slice of a user's activities to list.
// The set is closed; implementations must reject unknown values instead
// of falling through to an empty result.
type UserActivityFilter string

const (
	FilterUpcoming UserActivityFilter = "upcoming"
	FilterPast     UserActivityFilter = "past"
	FilterHosting  UserActivityFilter = "hosting"
)

// ActivityRepository defines database operations for activities and
// their attendee rows.
type ActivityRepository interface {
	// Create inserts the activity together with its host attendee row
	// in one transaction.
	Create(ctx context.Context, a *entity.Activity, host *entity.ActivityAttendee) error
	GetByID(ctx context.Context, id string) (*entity.Activity, error)
	Update(ctx context.Context, a *entity.Activity) error
	Delete(ctx context.Context, id string) error

	// List returns activities ordered by (date, id) ascending, at most
	// limit rows. The first page passes afterID == "" and gets rows with
	// date >= cursor; later pages resume strictly after (cursor, afterID)
	// so activities sharing a timestamp never repeat across pages.
	List(ctx context.Context, cursor time.Time, afterID string, limit int) ([]entity.Activity, error)

	// ListForUser returns the user's activities per filter, ordered by
	// date ascending.
	ListForUser(ctx context.Context, userID string, filter UserActivityFilter, now time.Time) ([]entity.Activity, error)

	Attendees(ctx context.Context, activityID string) ([]entity.ActivityAttendee, error)
	Attendee(ctx context.Context, activityID, userID string) (*entity.ActivityAttendee, error)
	AddAttendee(ctx context.Context, att *entity.ActivityAttendee) error
	RemoveAttendee(ctx context.Context, activityID, userID string) error
}
