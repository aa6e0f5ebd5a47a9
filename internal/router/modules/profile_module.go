package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reactivities/api/internal/container"
	handlers "github.com/reactivities/api/internal/interface/http"
	"github.com/reactivities/api/internal/interface/middleware"
	"github.com/reactivities/api/pkg/helpers"
)

// ProfileModule wires profile, photo and follow routes.
// Public: profile reads, photo list, follow lists, user activities, search
// Protected: edit profile, upload/delete/setMain photos, follow toggle
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	// Static route before the :id wildcard.
	rg.GET("/profiles/search", searchLimiter, m.Handler.Search)
	// Optional session so the Following flag reflects the caller.
	rg.GET("/profiles/:id", readLimiter, middleware.AuthOptional(container.GetRedis(), m.JWT), m.Handler.Get)
	rg.GET("/profiles/:id/photos", readLimiter, m.Handler.Photos)
	rg.GET("/profiles/:id/follow", readLimiter, m.Handler.Followings)
	rg.GET("/profiles/:id/activities", readLimiter, m.Handler.Activities)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/profiles", m.Handler.Edit)
		auth.POST("/profiles/:id/follow", m.Handler.FollowToggle)
		auth.POST("/photos", m.Handler.AddPhoto)
		auth.DELETE("/photos/:photoId", m.Handler.DeletePhoto)
		auth.POST("/photos/:photoId/setMain", m.Handler.SetMainPhoto)
	}
}
