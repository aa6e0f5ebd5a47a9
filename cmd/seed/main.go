package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/reactivities/api/config"
	"github.com/reactivities/api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "Pa$$w0rd"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := []struct {
		email, name, bio string
	}{
		{"bob@test.com", "Bob", "I love drums"},
		{"tom@test.com", "Tom", "Weekend hiker"},
		{"jane@test.com", "Jane", "Museum regular"},
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (email, password_hash, display_name, bio, is_verified)
			VALUES ($1, $2, $3, $4, TRUE)
			ON CONFLICT (email) DO UPDATE SET display_name = EXCLUDED.display_name
			RETURNING id
		`, u.email, hash, u.name, u.bio).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		ids = append(ids, id)
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, u.email, password)
	}

	activities := []struct {
		title, description, category, city, venue string
		daysOut                                   int
		lat, lng                                  float64
	}{
		{"Past Activity", "Activity 2 months ago", "drinks", "London", "Pub", -60, 51.5, -0.12},
		{"Future Drumming", "Drum circle in the park", "music", "London", "Hyde Park", 7, 51.507, -0.165},
		{"Museum Tour", "Guided tour of the galleries", "culture", "Paris", "Louvre", 30, 48.86, 2.33},
	}

	for i, a := range activities {
		host := ids[i%len(ids)]
		date := time.Now().UTC().AddDate(0, 0, a.daysOut)
		var activityID string
		err := db.QueryRow(`
			INSERT INTO activities (title, date, description, category, city, venue, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, a.title, date, a.description, a.category, a.city, a.venue, a.lat, a.lng).Scan(&activityID)
		if err != nil {
			log.Fatalf("failed to seed activity %q: %v", a.title, err)
		}
		if _, err := db.Exec(`
			INSERT INTO activity_attendees (activity_id, user_id, is_host)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (activity_id, user_id) DO NOTHING
		`, activityID, host); err != nil {
			log.Fatalf("failed to seed host attendee: %v", err)
		}
		// Everyone else joins as a guest.
		for _, uid := range ids {
			if uid == host {
				continue
			}
			if _, err := db.Exec(`
				INSERT INTO activity_attendees (activity_id, user_id)
				VALUES ($1, $2)
				ON CONFLICT (activity_id, user_id) DO NOTHING
			`, activityID, uid); err != nil {
				log.Fatalf("failed to seed attendee: %v", err)
			}
		}
		fmt.Printf("seeded activity: id=%s title=%q host=%s\n", activityID, a.title, host)
	}

	// A couple of follow edges so the counters have something to show.
	if len(ids) >= 3 {
		for _, pair := range [][2]string{{ids[0], ids[1]}, {ids[2], ids[1]}, {ids[1], ids[0]}} {
			if _, err := db.Exec(`
				INSERT INTO user_followings (observer_id, target_id)
				VALUES ($1, $2)
				ON CONFLICT (observer_id, target_id) DO NOTHING
			`, pair[0], pair[1]); err != nil {
				log.Fatalf("failed to seed following: %v", err)
			}
		}
		fmt.Println("seeded follow edges")
	}
}
