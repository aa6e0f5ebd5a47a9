package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reactivities/api/internal/container"
	"github.com/reactivities/api/internal/domain/repository"
	handlers "github.com/reactivities/api/internal/interface/http"
	"github.com/reactivities/api/internal/interface/middleware"
	"github.com/reactivities/api/pkg/helpers"
)

// ActivityModule wires the activity routes.
// Public: list, details, comments
// Protected: create, attend, add comment
// Host-only: edit, delete
type ActivityModule struct {
	Handler    *handlers.ActivityHandler
	JWT        *helpers.JWTManager
	Activities repository.ActivityRepository
}

func NewActivityModule(h *handlers.ActivityHandler, jwt *helpers.JWTManager, activities repository.ActivityRepository) *ActivityModule {
	return &ActivityModule{Handler: h, JWT: jwt, Activities: activities}
}

func (m *ActivityModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/activities", readLimiter, m.Handler.List)
	rg.GET("/activities/:id", readLimiter, m.Handler.Details)
	rg.GET("/activities/:id/comments", readLimiter, m.Handler.Comments)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/activities", m.Handler.Create)
		auth.POST("/activities/:id/attend", m.Handler.Attend)
		auth.POST("/activities/:id/comments", m.Handler.AddComment)

		host := auth.Group("/")
		host.Use(middleware.RequireHost(m.Activities))
		{
			host.PUT("/activities/:id", m.Handler.Edit)
			host.DELETE("/activities/:id", m.Handler.Delete)
		}
	}
}
