package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/application/activities"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func writeDeadline() time.Time { return time.Now().Add(time.Second) }

// inbound is one frame read from a websocket client.
type inbound struct {
	Type string `json:"type"`
	Body string `json:"body"`
}

// CommentRelay bridges websocket clients onto the comment command/query
// handlers. Each connected client joins the broadcast group of one
// activity; comments posted by any member fan out to all of them.
type CommentRelay struct {
	Hub      *Hub
	Mediator *application.Mediator
	Logger   *logrus.Logger
}

func NewCommentRelay(hub *Hub, m *application.Mediator, logger *logrus.Logger) *CommentRelay {
	return &CommentRelay{Hub: hub, Mediator: m, Logger: logger}
}

// Handle GET /ws/comments?activityId=... (auth required). The
// connection joins the activity's group, receives a loadComments
// snapshot, then relays sendComment frames until the peer goes away.
func (r *CommentRelay) Handle(c *gin.Context) {
	activityID := c.Query("activityId")
	userID := c.GetString("userID")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if r.Logger != nil {
			r.Logger.WithError(err).Warn("websocket upgrade failed")
		}
		return
	}
	defer func() { _ = ws.Close() }()

	if activityID == "" {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "activityId is required"),
			writeDeadline())
		return
	}

	ctx := c.Request.Context()
	client := r.Hub.Join(activityID)
	defer r.Hub.Leave(client)

	// Connect snapshot: newest-first comments for the activity.
	snapshot, err := application.Send[[]activities.CommentDTO](ctx, r.Mediator,
		activities.GetComments{ActivityID: activityID})
	if err != nil {
		r.Hub.Send(client, Event{Type: "error", Body: "cannot load comments"})
	} else {
		r.Hub.Send(client, Event{Type: "loadComments", Body: snapshot})
	}

	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			var req inbound
			if err := ws.ReadJSON(&req); err != nil {
				if wsErr, ok := err.(*websocket.CloseError); ok {
					if wsErr.Code != websocket.CloseNormalClosure && wsErr.Code != websocket.CloseGoingAway && r.Logger != nil {
						r.Logger.WithError(wsErr).Debug("websocket closed")
					}
				} else if r.Logger != nil {
					r.Logger.WithError(err).Debug("websocket read failed")
				}
				return
			}

			switch req.Type {
			case "sendComment":
				cmd := activities.AddComment{
					ActivityID: activityID,
					UserID:     userID,
					Body:       req.Body,
				}
				dto, err := application.Send[activities.CommentDTO](ctx, r.Mediator, cmd)
				if err != nil {
					// failures go to the sender only
					r.Hub.Send(client, Event{Type: "error", Body: err.Error()})
					continue
				}
				r.Hub.Broadcast(activityID, Event{Type: "sendComment", Body: dto})
			case "h": // heartbeat
			default:
				if r.Logger != nil {
					r.Logger.WithField("type", req.Type).Info("unknown websocket request type")
				}
			}
		}
	}()

	for {
		select {
		case <-quit:
			return
		case ev, ok := <-client.Events():
			if !ok {
				// dropped by the hub (slow consumer)
				return
			}
			if err := ws.WriteJSON(ev); err != nil {
				if r.Logger != nil {
					r.Logger.WithError(err).Debug("websocket write failed")
				}
				return
			}
		}
	}
}
