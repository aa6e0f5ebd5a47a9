package router

import (
	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/application/account"
	"github.com/reactivities/api/internal/application/activities"
	"github.com/reactivities/api/internal/application/profiles"
	"github.com/reactivities/api/internal/container"
	"github.com/reactivities/api/internal/infrastructure/gcs"
	pginfra "github.com/reactivities/api/internal/infrastructure/postgres"
	"github.com/reactivities/api/internal/infrastructure/search"
	handlers "github.com/reactivities/api/internal/interface/http"
	"github.com/reactivities/api/internal/interface/middleware"
	"github.com/reactivities/api/internal/interface/ws"
	"github.com/reactivities/api/internal/router/modules"
	"github.com/reactivities/api/pkg/validation"
)

// InitModules builds the repositories, registers every command/query
// handler on the mediator and wires the feature modules into the
// registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	activityRepo := pginfra.NewActivityRepository(pool)
	commentRepo := pginfra.NewCommentRepository(pool)
	photoRepo := pginfra.NewPhotoRepository(pool)
	followingRepo := pginfra.NewFollowingRepository(pool)

	photoStore := gcs.NewPhotoStore(container.GetGCS(), cfg.GCSBucket)
	profileIndex := search.NewProfileIndex(container.GetES(), cfg.ESProfilesIndex, logger)

	mediator := application.NewMediator(validation.New())
	activities.RegisterHandlers(mediator, activities.NewHandlers(activityRepo, commentRepo, userRepo, logger))
	profiles.RegisterHandlers(mediator, profiles.NewHandlers(
		userRepo, photoRepo, followingRepo, activityRepo, photoStore, profileIndex, logger))
	container.SetMediator(mediator)

	accountSvc := account.NewService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetRabbitPub(),
		profileIndex,
		logger,
		cfg.VerifyEmailURL,
		cfg.AppBaseURL,
	)

	accountHandler := handlers.NewAccountHandler(accountSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	activityHandler := handlers.NewActivityHandler(mediator, logger)
	profileHandler := handlers.NewProfileHandler(mediator, logger)

	r.Add(modules.NewAccountModule(accountHandler, container.GetJWT()))
	r.Add(modules.NewActivityModule(activityHandler, container.GetJWT(), activityRepo))
	r.Add(modules.NewProfileModule(profileHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	// Realtime comment relay lives outside the /api group.
	relay := ws.NewCommentRelay(ws.NewHub(), mediator, logger)
	r.Engine.GET("/ws/comments",
		middleware.Auth(container.GetRedis(), container.GetJWT()),
		relay.Handle,
	)
}
