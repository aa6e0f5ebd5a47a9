package activities

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/domain/entity"
	"github.com/reactivities/api/internal/domain/repository"
	"github.com/reactivities/api/pkg/validation"
)

type memActivityRepo struct {
	activities map[string]*entity.Activity
	attendees  []entity.ActivityAttendee
	nextID     int
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{activities: make(map[string]*entity.Activity)}
}

func (r *memActivityRepo) Create(ctx context.Context, a *entity.Activity, host *entity.ActivityAttendee) error {
	r.nextID++
	a.ID = fmt.Sprintf("a%d", r.nextID)
	r.activities[a.ID] = a
	host.ActivityID = a.ID
	host.DateJoined = time.Now()
	r.attendees = append(r.attendees, *host)
	return nil
}

func (r *memActivityRepo) GetByID(ctx context.Context, id string) (*entity.Activity, error) {
	a, ok := r.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memActivityRepo) Update(ctx context.Context, a *entity.Activity) error {
	if _, ok := r.activities[a.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *a
	r.activities[a.ID] = &cp
	return nil
}

func (r *memActivityRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.activities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.activities, id)
	return nil
}

func (r *memActivityRepo) List(ctx context.Context, cursor time.Time, afterID string, limit int) ([]entity.Activity, error) {
	var out []entity.Activity
	for _, a := range r.activities {
		if afterID == "" {
			if !a.Date.Before(cursor) {
				out = append(out, *a)
			}
			continue
		}
		if a.Date.After(cursor) || (a.Date.Equal(cursor) && a.ID > afterID) {
			out = append(out, *a)
		}
	}
	// insertion sort by (date, id) ascending, small test data
	less := func(a, b *entity.Activity) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(&out[j], &out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memActivityRepo) ListForUser(ctx context.Context, userID string, filter repository.UserActivityFilter, now time.Time) ([]entity.Activity, error) {
	var out []entity.Activity
	for _, att := range r.attendees {
		if att.UserID != userID {
			continue
		}
		a := r.activities[att.ActivityID]
		if a == nil {
			continue
		}
		switch filter {
		case repository.FilterUpcoming:
			if a.Date.Before(now) {
				continue
			}
		case repository.FilterPast:
			if !a.Date.Before(now) {
				continue
			}
		case repository.FilterHosting:
			if !att.IsHost {
				continue
			}
		default:
			return nil, fmt.Errorf("unknown filter %q", filter)
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *memActivityRepo) Attendees(ctx context.Context, activityID string) ([]entity.ActivityAttendee, error) {
	var out []entity.ActivityAttendee
	for _, att := range r.attendees {
		if att.ActivityID == activityID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (r *memActivityRepo) Attendee(ctx context.Context, activityID, userID string) (*entity.ActivityAttendee, error) {
	for _, att := range r.attendees {
		if att.ActivityID == activityID && att.UserID == userID {
			cp := att
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memActivityRepo) AddAttendee(ctx context.Context, att *entity.ActivityAttendee) error {
	att.DateJoined = time.Now()
	r.attendees = append(r.attendees, *att)
	return nil
}

func (r *memActivityRepo) RemoveAttendee(ctx context.Context, activityID, userID string) error {
	for i, att := range r.attendees {
		if att.ActivityID == activityID && att.UserID == userID {
			r.attendees = append(r.attendees[:i], r.attendees[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memCommentRepo struct {
	comments []entity.Comment
	nextID   int
}

func (r *memCommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	r.nextID++
	c.ID = fmt.Sprintf("c%d", r.nextID)
	c.CreatedAt = time.Now()
	r.comments = append(r.comments, *c)
	return nil
}

func (r *memCommentRepo) ListByActivity(ctx context.Context, activityID string) ([]entity.Comment, error) {
	var out []entity.Comment
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].ActivityID == activityID {
			out = append(out, r.comments[i])
		}
	}
	return out, nil
}

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(ctx context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) SetVerified(ctx context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsVerified = true
	return nil
}

func newFixture() (*memActivityRepo, *memCommentRepo, *memUserRepo, *application.Mediator) {
	activityRepo := newMemActivityRepo()
	commentRepo := &memCommentRepo{}
	userRepo := newMemUserRepo(
		&entity.User{ID: "u1", Email: "bob@test.com", DisplayName: "Bob", ImageURL: "http://img/bob"},
		&entity.User{ID: "u2", Email: "tom@test.com", DisplayName: "Tom"},
	)
	m := application.NewMediator(validation.New())
	RegisterHandlers(m, NewHandlers(activityRepo, commentRepo, userRepo, nil))
	return activityRepo, commentRepo, userRepo, m
}

func mustCreate(t *testing.T, m *application.Mediator, userID string, date time.Time) string {
	t.Helper()
	id, err := application.Send[string](context.Background(), m, CreateActivity{
		UserID:      userID,
		Title:       "Drum circle",
		Date:        date,
		Description: "drums in the park",
		Category:    "music",
		City:        "London",
		Venue:       "Hyde Park",
		Latitude:    51.5,
		Longitude:   -0.16,
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	return id
}

func TestCreateActivityMakesCreatorHost(t *testing.T) {
	activityRepo, _, _, m := newFixture()
	id := mustCreate(t, m, "u1", time.Now().Add(time.Hour))

	att, err := activityRepo.Attendee(context.Background(), id, "u1")
	if err != nil {
		t.Fatalf("host attendee missing: %v", err)
	}
	if !att.IsHost {
		t.Fatal("creator must be host")
	}
}

func TestCreateActivityValidation(t *testing.T) {
	_, _, _, m := newFixture()

	_, err := application.Send[string](context.Background(), m, CreateActivity{
		UserID:      "u1",
		Title:       "bad",
		Date:        time.Now().Add(-time.Hour),
		Description: "d",
		Category:    "c",
		City:        "l",
		Venue:       "v",
		Latitude:    200,
		Longitude:   0,
	})
	var verr *application.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["latitude"]; !ok {
		t.Fatalf("missing latitude error: %v", verr.Fields)
	}
	if _, ok := verr.Fields["date"]; !ok {
		t.Fatalf("missing date error: %v", verr.Fields)
	}
}

func TestEditActivityNotFound(t *testing.T) {
	_, _, _, m := newFixture()

	_, err := application.Send[application.Unit](context.Background(), m, EditActivity{
		ID:          "missing",
		Title:       "t",
		Date:        time.Now().Add(time.Hour),
		Description: "d",
		Category:    "c",
		City:        "l",
		Venue:       "v",
	})
	var aerr *application.Error
	if !errors.As(err, &aerr) || aerr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestUpdateAttendanceJoinThenLeave(t *testing.T) {
	activityRepo, _, _, m := newFixture()
	id := mustCreate(t, m, "u1", time.Now().Add(time.Hour))
	ctx := context.Background()

	// guest joins
	if _, err := application.Send[application.Unit](ctx, m, UpdateAttendance{ActivityID: id, UserID: "u2"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := activityRepo.Attendee(ctx, id, "u2"); err != nil {
		t.Fatal("guest should be attending")
	}

	// same command again leaves
	if _, err := application.Send[application.Unit](ctx, m, UpdateAttendance{ActivityID: id, UserID: "u2"}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, err := activityRepo.Attendee(ctx, id, "u2"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatal("guest should have left")
	}
}

func TestUpdateAttendanceHostTogglesCancel(t *testing.T) {
	activityRepo, _, _, m := newFixture()
	id := mustCreate(t, m, "u1", time.Now().Add(time.Hour))
	ctx := context.Background()

	if _, err := application.Send[application.Unit](ctx, m, UpdateAttendance{ActivityID: id, UserID: "u1"}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	a, _ := activityRepo.GetByID(ctx, id)
	if !a.IsCancelled {
		t.Fatal("host toggle should cancel")
	}

	// joining a cancelled activity is rejected
	_, err := application.Send[application.Unit](ctx, m, UpdateAttendance{ActivityID: id, UserID: "u2"})
	var aerr *application.Error
	if !errors.As(err, &aerr) || aerr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for cancelled join, got %v", err)
	}

	// host toggles it back
	if _, err := application.Send[application.Unit](ctx, m, UpdateAttendance{ActivityID: id, UserID: "u1"}); err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	a, _ = activityRepo.GetByID(ctx, id)
	if a.IsCancelled {
		t.Fatal("second host toggle should uncancel")
	}
}

func TestAddCommentMissingActivityHasNoSideEffect(t *testing.T) {
	_, commentRepo, _, m := newFixture()

	_, err := application.Send[CommentDTO](context.Background(), m, AddComment{
		ActivityID: "missing",
		UserID:     "u1",
		Body:       "hello",
	})
	var aerr *application.Error
	if !errors.As(err, &aerr) || aerr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
	if len(commentRepo.comments) != 0 {
		t.Fatal("no comment row may be written for a missing activity")
	}
}

func TestAddCommentProjectsAuthor(t *testing.T) {
	_, _, _, m := newFixture()
	id := mustCreate(t, m, "u1", time.Now().Add(time.Hour))

	dto, err := application.Send[CommentDTO](context.Background(), m, AddComment{
		ActivityID: id,
		UserID:     "u1",
		Body:       "hello",
	})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if dto.DisplayName != "Bob" || dto.ImageURL != "http://img/bob" {
		t.Fatalf("author fields not projected: %+v", dto)
	}
	if dto.ID == "" || dto.CreatedAt.IsZero() {
		t.Fatalf("persistence fields missing: %+v", dto)
	}
}

func TestGetActivityListPagination(t *testing.T) {
	_, _, _, m := newFixture()
	base := time.Now().Add(time.Hour)
	mustCreate(t, m, "u1", base)
	mustCreate(t, m, "u1", base.Add(time.Hour))
	third := mustCreate(t, m, "u1", base.Add(2*time.Hour))

	page, err := application.Send[ActivityPage](context.Background(), m, GetActivityList{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.NextCursor == nil {
		t.Fatal("expected a next cursor")
	}

	next, err := application.Send[ActivityPage](context.Background(), m, GetActivityList{
		Cursor:  page.NextCursor.Date,
		AfterID: page.NextCursor.ID,
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(next.Items) != 1 || next.Items[0].ID != third {
		t.Fatalf("unexpected second page: %+v", next.Items)
	}
	if next.NextCursor != nil {
		t.Fatal("last page must not have a next cursor")
	}
}

func TestGetActivityListStableWithEqualDates(t *testing.T) {
	_, _, _, m := newFixture()
	date := time.Now().Add(time.Hour)
	for i := 0; i < 3; i++ {
		mustCreate(t, m, "u1", date)
	}

	page, err := application.Send[ActivityPage](context.Background(), m, GetActivityList{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 || page.NextCursor == nil {
		t.Fatalf("first page: %+v", page)
	}

	next, err := application.Send[ActivityPage](context.Background(), m, GetActivityList{
		Cursor:  page.NextCursor.Date,
		AfterID: page.NextCursor.ID,
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(next.Items) != 1 {
		t.Fatalf("second page: %+v", next.Items)
	}

	seen := map[string]bool{}
	for _, it := range append(page.Items, next.Items...) {
		if seen[it.ID] {
			t.Fatalf("activity %s repeated across pages", it.ID)
		}
		seen[it.ID] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected all 3 activities exactly once, got %v", seen)
	}
}

func TestGetActivityDetailsExposesHost(t *testing.T) {
	_, _, _, m := newFixture()
	id := mustCreate(t, m, "u1", time.Now().Add(time.Hour))

	dto, err := application.Send[ActivityDTO](context.Background(), m, GetActivityDetails{ID: id})
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if dto.HostID != "u1" {
		t.Fatalf("host id not derived from attendees: %+v", dto)
	}
	if len(dto.Attendees) != 1 || !dto.Attendees[0].IsHost {
		t.Fatalf("unexpected attendees: %+v", dto.Attendees)
	}
}
