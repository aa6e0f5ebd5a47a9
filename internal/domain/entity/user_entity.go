package entity

import (
	"time"
)

// User is the aggregate root for the account/profile domain.
// Passwords are stored as bcrypt hashes in Password field.
// ImageURL mirrors the URL of the user's main photo.
type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	Bio         string
	ImageURL    string
	IsVerified  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
