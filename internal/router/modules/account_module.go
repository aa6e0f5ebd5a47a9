package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reactivities/api/internal/container"
	handlers "github.com/reactivities/api/internal/interface/http"
	"github.com/reactivities/api/internal/interface/middleware"
	"github.com/reactivities/api/pkg/helpers"
)

// AccountModule wires registration, login and session routes.
// Public: register/login/refresh/verifyEmail/resendConfirmEmail
// Protected: GET /api/account, POST /api/account/logout
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/account/register", registerLimiter, m.Handler.Register)
	rg.POST("/account/login", loginLimiter, m.Handler.Login)
	rg.POST("/account/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/account/verifyEmail", verifyLimiter, m.Handler.VerifyConfirm)
	rg.POST("/account/resendConfirmEmail", resendLimiter, m.Handler.ResendConfirmEmail)

	// Session probe: anonymous callers get a 204 instead of a 401.
	rg.GET("/account", middleware.AuthOptional(container.GetRedis(), m.JWT), m.Handler.UserInfo)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/account/logout", m.Handler.Logout)
	}
}
