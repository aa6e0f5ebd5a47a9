package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/application/profiles"
	"github.com/reactivities/api/internal/infrastructure/search"
	"github.com/reactivities/api/pkg/response"
	"github.com/reactivities/api/pkg/validation"
)

type ProfileHandler struct {
	Mediator *application.Mediator
	Logger   *logrus.Logger
}

func NewProfileHandler(m *application.Mediator, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Mediator: m, Logger: logger}
}

// Get GET /api/profiles/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	q := profiles.GetProfile{
		UserID:    c.GetString("userID"),
		ProfileID: c.Param("id"),
	}
	p, err := application.Send[profiles.Profile](c.Request.Context(), h.Mediator, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// Edit PUT /api/profiles (auth required)
func (h *ProfileHandler) Edit(c *gin.Context) {
	var cmd profiles.EditProfile
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cmd.UserID = c.GetString("userID")

	if _, err := application.Send[application.Unit](c.Request.Context(), h.Mediator, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "profile updated", nil)
}

// Photos GET /api/profiles/:id/photos
func (h *ProfileHandler) Photos(c *gin.Context) {
	q := profiles.GetProfilePhotos{ProfileID: c.Param("id")}
	out, err := application.Send[[]profiles.PhotoDTO](c.Request.Context(), h.Mediator, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "photos", nil)
}

// AddPhoto POST /api/photos (auth required, multipart field "file")
func (h *ProfileHandler) AddPhoto(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "photo file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read photo file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	cmd := profiles.AddPhoto{
		UserID:      c.GetString("userID"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		File:        f,
	}
	dto, err := application.Send[profiles.PhotoDTO](c.Request.Context(), h.Mediator, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, dto, "photo uploaded", nil)
}

// DeletePhoto DELETE /api/photos/:photoId (auth required)
func (h *ProfileHandler) DeletePhoto(c *gin.Context) {
	cmd := profiles.DeletePhoto{
		UserID:  c.GetString("userID"),
		PhotoID: c.Param("photoId"),
	}
	if _, err := application.Send[application.Unit](c.Request.Context(), h.Mediator, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "photo deleted", nil)
}

// SetMainPhoto POST /api/photos/:photoId/setMain (auth required)
func (h *ProfileHandler) SetMainPhoto(c *gin.Context) {
	cmd := profiles.SetMainPhoto{
		UserID:  c.GetString("userID"),
		PhotoID: c.Param("photoId"),
	}
	if _, err := application.Send[application.Unit](c.Request.Context(), h.Mediator, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "main photo set", nil)
}

// FollowToggle POST /api/profiles/:id/follow (auth required)
func (h *ProfileHandler) FollowToggle(c *gin.Context) {
	cmd := profiles.FollowToggle{
		UserID:   c.GetString("userID"),
		TargetID: c.Param("id"),
	}
	if _, err := application.Send[application.Unit](c.Request.Context(), h.Mediator, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"toggled": true}, "follow toggled", nil)
}

// Followings GET /api/profiles/:id/follow?predicate=followers|followings
func (h *ProfileHandler) Followings(c *gin.Context) {
	predicate, err := profiles.ParseFollowPredicate(c.Query("predicate"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	q := profiles.GetFollowings{ProfileID: c.Param("id"), Predicate: predicate}
	out, err := application.Send[[]profiles.Profile](c.Request.Context(), h.Mediator, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "followings", nil)
}

// Activities GET /api/profiles/:id/activities?filter=upcoming|past|hosting
func (h *ProfileHandler) Activities(c *gin.Context) {
	filter, err := profiles.ParseActivityFilter(c.Query("filter"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	q := profiles.GetUserActivities{ProfileID: c.Param("id"), Filter: filter}
	out, err := application.Send[[]profiles.UserActivityDTO](c.Request.Context(), h.Mediator, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "activities", nil)
}

// Search GET /api/profiles/search?q=<text>&size=<n>
func (h *ProfileHandler) Search(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		size, _ = strconv.Atoi(raw)
	}
	q := profiles.SearchProfiles{Query: c.Query("q"), Size: size}
	out, err := application.Send[[]search.Hit](c.Request.Context(), h.Mediator, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "profiles", nil)
}
