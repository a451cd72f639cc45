package setup

import (
	"github.com/campusboard/feedengine/internal/config"
	"github.com/campusboard/feedengine/internal/feed"
	"github.com/campusboard/feedengine/internal/handler"
	"github.com/campusboard/feedengine/internal/middleware"
	"github.com/campusboard/feedengine/internal/render"
	"github.com/campusboard/feedengine/internal/service"
	"github.com/campusboard/feedengine/internal/storage/mongodb"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *mongodb.Storage
	Sessions       *feed.Manager
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	store, err := mongodb.New(cfg.Public.Mongo)
	if err != nil {
		return nil, err
	}

	sessions := feed.NewManager(store, cfg.Public.PageSize, cfg.Public.SessionTTL)
	announcements := service.NewAnnouncements(store, &service.FieldValidator{}, cfg.Public.BulkChunk)
	renderer := render.New()

	h := handler.New(announcements, sessions, renderer, store)

	return &Dependencies{
		Config:         cfg,
		Storage:        store,
		Sessions:       sessions,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(cfg.JwtKey(), cfg.JwtTTL()),
	}, nil
}
