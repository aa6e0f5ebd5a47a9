package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reactivities/api/internal/domain/repository"
	"github.com/reactivities/api/pkg/response"
)

// RequireHost allows a request through only when the authenticated user
// hosts the activity named by the :id route parameter. Must run after
// Auth.
func RequireHost(activities repository.ActivityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		activityID := c.Param("id")
		userID := c.GetString("userID")
		if activityID == "" || userID == "" {
			response.Error[any](c, http.StatusForbidden, "forbidden", nil)
			c.Abort()
			return
		}

		att, err := activities.Attendee(c.Request.Context(), activityID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.Error[any](c, http.StatusForbidden, "only the host can modify the activity", nil)
				c.Abort()
				return
			}
			response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
			c.Abort()
			return
		}
		if !att.IsHost {
			response.Error[any](c, http.StatusForbidden, "only the host can modify the activity", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
