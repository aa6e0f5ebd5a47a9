package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/application/activities"
	"github.com/reactivities/api/pkg/response"
	"github.com/reactivities/api/pkg/validation"
)

type ActivityHandler struct {
	Mediator *application.Mediator
	Logger   *logrus.Logger
}

func NewActivityHandler(m *application.Mediator, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{Mediator: m, Logger: logger}
}

// List GET /api/activities?cursor=<RFC3339>&after=<id>&limit=<n>
func (h *ActivityHandler) List(c *gin.Context) {
	q := activities.GetActivityList{AfterID: c.Query("after")}
	if raw := c.Query("cursor"); raw != "" {
		cursor, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid cursor", nil)
			return
		}
		q.Cursor = cursor
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		q.Limit = limit
	}

	page, err := application.Send[activities.ActivityPage](c.Request.Context(), h.Mediator, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "activities", nil)
}

// Details GET /api/activities/:id
func (h *ActivityHandler) Details(c *gin.Context) {
	q := activities.GetActivityDetails{ID: c.Param("id")}
	dto, err := application.Send[activities.ActivityDTO](c.Request.Context(), h.Mediator, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, dto, "activity", nil)
}

// Create POST /api/activities (auth required)
func (h *ActivityHandler) Create(c *gin.Context) {
	var cmd activities.CreateActivity
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cmd.UserID = c.GetString("userID")

	id, err := application.Send[string](c.Request.Context(), h.Mediator, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": id}, "activity created", nil)
}

// Edit PUT /api/activities/:id (host only)
func (h *ActivityHandler) Edit(c *gin.Context) {
	var cmd activities.EditActivity
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cmd.ID = c.Param("id")

	if _, err := application.Send[application.Unit](c.Request.Context(), h.Mediator, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "activity updated", nil)
}

// Delete DELETE /api/activities/:id (host only)
func (h *ActivityHandler) Delete(c *gin.Context) {
	cmd := activities.DeleteActivity{ID: c.Param("id")}
	if _, err := application.Send[application.Unit](c.Request.Context(), h.Mediator, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "activity deleted", nil)
}

// Attend POST /api/activities/:id/attend (auth required)
func (h *ActivityHandler) Attend(c *gin.Context) {
	cmd := activities.UpdateAttendance{
		ActivityID: c.Param("id"),
		UserID:     c.GetString("userID"),
	}
	if _, err := application.Send[application.Unit](c.Request.Context(), h.Mediator, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "attendance updated", nil)
}

// Comments GET /api/activities/:id/comments
func (h *ActivityHandler) Comments(c *gin.Context) {
	q := activities.GetComments{ActivityID: c.Param("id")}
	out, err := application.Send[[]activities.CommentDTO](c.Request.Context(), h.Mediator, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "comments", nil)
}

// AddComment POST /api/activities/:id/comments (auth required)
func (h *ActivityHandler) AddComment(c *gin.Context) {
	var cmd activities.AddComment
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cmd.ActivityID = c.Param("id")
	cmd.UserID = c.GetString("userID")

	dto, err := application.Send[activities.CommentDTO](c.Request.Context(), h.Mediator, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, dto, "comment added", nil)
}
