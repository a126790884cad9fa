// Package bootstrap assembles the echo application from configuration and
// its backing stores.
package bootstrap

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sampleapp/internal/auth"
	"sampleapp/internal/cache"
	"sampleapp/internal/config"
	"sampleapp/internal/handler"
	"sampleapp/internal/repository"
	"sampleapp/internal/router"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
	"sampleapp/internal/validation"
	"sampleapp/internal/view"
)

// App is the assembled application.
type App struct {
	Echo     *echo.Echo
	Sessions session.Store
	Users    service.UserService
}

// New wires repositories, services, sessions and routes. rdb may be nil, in
// which case sessions live in memory and caching and token revocation are
// disabled.
func New(cfg *config.Config, logger *logrus.Logger, gormDB *gorm.DB, rdb *redis.Client) (*App, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	var store session.Store
	switch {
	case cfg.SessionStore == "redis" && rdb != nil:
		store = session.NewRedisStore(rdb)
	case cfg.SessionStore == "redis", cfg.SessionStore == "memory":
		store = session.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}

	var cacheClient *cache.Client
	if rdb != nil {
		cacheClient = cache.New(rdb)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewMicropostRepository(gormDB)
	relRepo := repository.NewRelationshipRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	validator := validation.New()

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, tokenStore, logger)
	userService := service.NewUserService(userRepo, hasher, validator, cacheClient, cfg.PerPage, logger)
	postService := service.NewMicropostService(postRepo, validator, cfg.PerPage, logger)
	relService := service.NewRelationshipService(relRepo, userRepo, postRepo, cfg.PerPage, logger)

	sessions := session.NewManager(store, authService, jwtService, session.Options{
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}, logger)

	// Initialize handlers
	static := handler.NewStaticHandler(sessions, postService, relService)
	handlers := router.Handlers{
		Static:        static,
		Sessions:      handler.NewSessionHandler(sessions, authService),
		Users:         handler.NewUserHandler(sessions, userService, postService, relService),
		Microposts:    handler.NewMicropostHandler(sessions, postService, static),
		Relationships: handler.NewRelationshipHandler(sessions, relService),
		Auth:          handler.NewAuthHandler(authService),
		API:           handler.NewAPIHandler(userService, postService, relService),
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	router.Register(e, cfg, logger, sessions, authService, validator, handlers)

	return &App{Echo: e, Sessions: store, Users: userService}, nil
}
