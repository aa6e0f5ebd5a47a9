package entity

import "time"

// UserFollowing is the directed follow edge: observer follows target.
// Keyed by (ObserverID, TargetID).
type UserFollowing struct {
	ObserverID string
	TargetID   string
	CreatedAt  time.Time
}
