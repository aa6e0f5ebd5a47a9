package entity

import "time"

// Activity is a scheduled social event. Date must be strictly in the
// future when the activity is created; that rule lives in the command
// validator, not here.
type Activity struct {
	ID          string
	Title       string
	Date        time.Time
	Description string
	Category    string
	City        string
	Venue       string
	Latitude    float64
	Longitude   float64
	IsCancelled bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ActivityAttendee links a User to an Activity, flagged host or guest.
// Keyed by (ActivityID, UserID).
type ActivityAttendee struct {
	ActivityID string
	UserID     string
	IsHost     bool
	DateJoined time.Time

	// Denormalized user fields for attendee projections; populated by
	// queries that join users, zero otherwise.
	DisplayName string
	ImageURL    string
	Bio         string
}
