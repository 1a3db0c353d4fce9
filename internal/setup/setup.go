package setup

import (
	"github.com/itchan-dev/chanfeed/internal/handler"
	"github.com/itchan-dev/chanfeed/internal/service"
	"github.com/itchan-dev/chanfeed/internal/storage/pg"
	"github.com/itchan-dev/chanfeed/shared/config"
	"github.com/itchan-dev/chanfeed/shared/jwt"
	"github.com/itchan-dev/chanfeed/shared/middleware"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *middleware.Auth
}

// SetupDependencies initializes everything the router needs.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	reads := service.NewReadLedger(storage, storage)
	likes := service.NewLikeLedger(storage, storage)
	feed := service.NewFeed(storage, reads, likes, storage, service.FeedPolicy{
		DefaultPageSize: cfg.Public.MessagesPerPage,
		MaxPageSize:     cfg.Public.MaxPageSize,
		MarkReadOnView:  cfg.MarkReadOnView(),
	})
	unread := service.NewUnreadAccountant(reads, likes, storage)
	auth := service.NewAuth(storage, jwtService)
	presence := service.NewPresence(storage)

	h := handler.New(auth, feed, likes, reads, unread, presence, cfg, storage)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: middleware.NewAuth(jwtService),
	}, nil
}
