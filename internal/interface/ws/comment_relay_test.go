package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/application/activities"
	"github.com/reactivities/api/pkg/validation"
)

type frame struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

func newRelayServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := application.NewMediator(validation.New())
	application.Register(m, func(ctx context.Context, q activities.GetComments) ([]activities.CommentDTO, error) {
		return []activities.CommentDTO{{ID: "c1", ActivityID: q.ActivityID, Body: "first"}}, nil
	})
	application.Register(m, func(ctx context.Context, cmd activities.AddComment) (activities.CommentDTO, error) {
		if cmd.Body == "" {
			return activities.CommentDTO{}, application.BadRequest("body is required")
		}
		return activities.CommentDTO{
			ID:         "c2",
			ActivityID: cmd.ActivityID,
			UserID:     cmd.UserID,
			Body:       cmd.Body,
			CreatedAt:  time.Now(),
		}, nil
	})

	relay := NewCommentRelay(NewHub(), m, nil)
	engine := gin.New()
	engine.GET("/ws/comments", func(c *gin.Context) { c.Set("userID", "u1") }, relay.Handle)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func dialRelay(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func TestRelaySendsSnapshotThenBroadcastsComments(t *testing.T) {
	srv := newRelayServer(t)
	a := dialRelay(t, srv, "/ws/comments?activityId=act1")
	b := dialRelay(t, srv, "/ws/comments?activityId=act1")

	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		if f.Type != "loadComments" {
			t.Fatalf("expected snapshot first, got %q", f.Type)
		}
		var snapshot []activities.CommentDTO
		if err := json.Unmarshal(f.Body, &snapshot); err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if len(snapshot) != 1 || snapshot[0].ID != "c1" {
			t.Fatalf("snapshot: %+v", snapshot)
		}
	}

	if err := a.WriteJSON(inbound{Type: "sendComment", Body: "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		if f.Type != "sendComment" {
			t.Fatalf("expected sendComment broadcast, got %q", f.Type)
		}
		var dto activities.CommentDTO
		if err := json.Unmarshal(f.Body, &dto); err != nil {
			t.Fatalf("comment: %v", err)
		}
		if dto.Body != "hello" || dto.UserID != "u1" {
			t.Fatalf("comment: %+v", dto)
		}
	}
}

func TestRelayFailureGoesToSenderOnly(t *testing.T) {
	srv := newRelayServer(t)
	a := dialRelay(t, srv, "/ws/comments?activityId=act1")
	b := dialRelay(t, srv, "/ws/comments?activityId=act1")
	readFrame(t, a)
	readFrame(t, b)

	if err := a.WriteJSON(inbound{Type: "sendComment", Body: ""}); err != nil {
		t.Fatalf("write: %v", err)
	}

	if f := readFrame(t, a); f.Type != "error" {
		t.Fatalf("sender must see the failure, got %q", f.Type)
	}

	_ = b.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var f frame
	if err := b.ReadJSON(&f); err == nil {
		t.Fatalf("other client must not see the failure, got %+v", f)
	}
}

func TestRelayRejectsMissingActivityID(t *testing.T) {
	srv := newRelayServer(t)
	conn := dialRelay(t, srv, "/ws/comments")

	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code != websocket.ClosePolicyViolation {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}
