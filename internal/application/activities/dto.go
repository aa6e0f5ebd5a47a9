package activities

import "time"

type AttendeeDTO struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio"`
	ImageURL    string    `json:"imageUrl"`
	IsHost      bool      `json:"isHost"`
	DateJoined  time.Time `json:"dateJoined"`
}

type ActivityDTO struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Date        time.Time     `json:"date"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	City        string        `json:"city"`
	Venue       string        `json:"venue"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	IsCancelled bool          `json:"isCancelled"`
	HostID      string        `json:"hostId"`
	Attendees   []AttendeeDTO `json:"attendees"`
}

// PageCursor marks the last activity of a page. The next page resumes
// strictly after it, keyed on (date, id) so equal timestamps page
// without gaps or repeats.
type PageCursor struct {
	Date time.Time `json:"date"`
	ID   string    `json:"id"`
}

// ActivityPage is one page of the keyset activity listing.
type ActivityPage struct {
	Items      []ActivityDTO `json:"items"`
	NextCursor *PageCursor   `json:"nextCursor,omitempty"`
}

type CommentDTO struct {
	ID          string    `json:"id"`
	ActivityID  string    `json:"activityId"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	ImageURL    string    `json:"imageUrl"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}
