package activities

import "time"

// CreateActivity creates an activity and makes the acting user its host.
// UserID is threaded in by the interface layer, never read from ambient
// state.
type CreateActivity struct {
	UserID      string    `json:"-"`
	Title       string    `json:"title" validate:"required,max=100"`
	Date        time.Time `json:"date" validate:"required,future"`
	Description string    `json:"description" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	City        string    `json:"city" validate:"required"`
	Venue       string    `json:"venue" validate:"required"`
	Latitude    float64   `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64   `json:"longitude" validate:"min=-180,max=180"`
}

// EditActivity updates the mutable fields of an activity. The host-only
// check happens at the route, before dispatch.
type EditActivity struct {
	ID          string    `json:"-"`
	Title       string    `json:"title" validate:"required,max=100"`
	Date        time.Time `json:"date" validate:"required,future"`
	Description string    `json:"description" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	City        string    `json:"city" validate:"required"`
	Venue       string    `json:"venue" validate:"required"`
	Latitude    float64   `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64   `json:"longitude" validate:"min=-180,max=180"`
}

type DeleteActivity struct {
	ID string `json:"-"`
}

// UpdateAttendance toggles the acting user's attendance; when the user
// is the host it toggles cancellation instead.
type UpdateAttendance struct {
	ActivityID string `json:"-"`
	UserID     string `json:"-"`
}

// AddComment is shared by the REST route and the websocket relay.
type AddComment struct {
	ActivityID string `json:"activityId" validate:"required"`
	UserID     string `json:"-"`
	Body       string `json:"body" validate:"required"`
}

type GetActivityList struct {
	Cursor  time.Time
	AfterID string
	Limit   int
}

type GetActivityDetails struct {
	ID string
}

type GetComments struct {
	ActivityID string
}
