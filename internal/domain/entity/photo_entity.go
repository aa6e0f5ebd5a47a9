package entity

import "time"

// Photo belongs to exactly one User. PublicID is the storage-provider
// object identifier used to delete the object again.
type Photo struct {
	ID        string
	UserID    string
	URL       string
	PublicID  string
	CreatedAt time.Time
}
