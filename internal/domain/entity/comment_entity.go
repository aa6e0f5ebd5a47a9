package entity

import "time"

// Comment belongs to exactly one Activity and one User.
type Comment struct {
	ID         string
	ActivityID string
	UserID     string
	Body       string
	CreatedAt  time.Time

	// Author projection, populated by queries that join users.
	DisplayName string
	ImageURL    string
}
