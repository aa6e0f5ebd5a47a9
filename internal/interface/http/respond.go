package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/pkg/response"
)

// respondError translates application-layer failures into HTTP
// responses. Validation failures return the per-field detail map;
// typed errors carry their own status; anything else is a 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", verr.Fields)
		return
	}
	var aerr *application.Error
	if errors.As(err, &aerr) {
		response.Error[any](c, aerr.Code, aerr.Message, nil)
		return
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}
