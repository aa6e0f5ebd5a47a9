package profiles

import "time"

type Profile struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	Bio            string `json:"bio"`
	ImageURL       string `json:"imageUrl"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
	Following      bool   `json:"following"`
}

type PhotoDTO struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserActivityDTO struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}
