package profiles

import (
	"fmt"
	"io"

	"github.com/reactivities/api/internal/domain/repository"
)

// FollowPredicate selects which side of the follow edge to list. The
// set is closed; unknown values are rejected at parse time instead of
// silently returning nothing.
type FollowPredicate string

const (
	PredicateFollowers  FollowPredicate = "followers"
	PredicateFollowings FollowPredicate = "followings"
)

// ParseFollowPredicate maps a query-string value onto the closed set.
// Empty input defaults to followers.
func ParseFollowPredicate(s string) (FollowPredicate, error) {
	switch s {
	case "", "followers":
		return PredicateFollowers, nil
	case "followings":
		return PredicateFollowings, nil
	default:
		return "", fmt.Errorf("unknown follow predicate %q", s)
	}
}

// ParseActivityFilter maps a query-string value onto the closed filter
// set. Empty input defaults to upcoming.
func ParseActivityFilter(s string) (repository.UserActivityFilter, error) {
	switch s {
	case "", "upcoming":
		return repository.FilterUpcoming, nil
	case "past":
		return repository.FilterPast, nil
	case "hosting":
		return repository.FilterHosting, nil
	default:
		return "", fmt.Errorf("unknown activity filter %q", s)
	}
}

// GetProfile reads one profile; UserID is the requesting user and may
// be empty for anonymous reads.
type GetProfile struct {
	UserID    string
	ProfileID string
}

type EditProfile struct {
	UserID      string `json:"-"`
	DisplayName string `json:"displayName" validate:"required"`
	Bio         string `json:"bio"`
}

type AddPhoto struct {
	UserID      string
	FileName    string
	ContentType string
	File        io.Reader
}

type DeletePhoto struct {
	UserID  string
	PhotoID string
}

type SetMainPhoto struct {
	UserID  string
	PhotoID string
}

type GetProfilePhotos struct {
	ProfileID string
}

type FollowToggle struct {
	UserID   string
	TargetID string
}

type GetFollowings struct {
	ProfileID string
	Predicate FollowPredicate
}

type GetUserActivities struct {
	ProfileID string
	Filter    repository.UserActivityFilter
}

type SearchProfiles struct {
	Query string
	Size  int
}
