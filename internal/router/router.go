package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"sampleapp/internal/config"
	"sampleapp/internal/handler"
	"sampleapp/internal/logging"
	appmw "sampleapp/internal/middleware"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
	"sampleapp/internal/validation"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Static        *handler.StaticHandler
	Sessions      *handler.SessionHandler
	Users         *handler.UserHandler
	Microposts    *handler.MicropostHandler
	Relationships *handler.RelationshipHandler
	Auth          *handler.AuthHandler
	API           *handler.APIHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger logrus.FieldLogger,
	sessions *session.Manager,
	authService service.AuthService,
	v *validation.Validator,
	h Handlers,
) {
	// forms tunnel PATCH and DELETE through POST
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: methodFromForm("_method"),
	}))
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(sessions.Middleware())
	if cfg.CSRFEnabled {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper:        skipAPI,
			TokenLookup:    "form:_csrf,header:" + echo.HeaderXCSRFToken,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.CookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	// Add validator
	e.Validator = &CustomValidator{validator: v}
	e.HTTPErrorHandler = handler.ErrorHandler(logger, sessions)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireLogin := appmw.RequireLogin(sessions)
	correctUser := appmw.RequireCorrectUser(sessions)
	admin := appmw.RequireAdmin(sessions)

	// Static pages
	e.GET("/", h.Static.Home)
	e.GET("/help", h.Static.Help)

	// Sessions
	e.GET("/login", h.Sessions.New)
	e.POST("/login", h.Sessions.Create)
	e.DELETE("/logout", h.Sessions.Destroy)

	// Users
	e.GET("/signup", h.Users.New)
	e.POST("/users", h.Users.Create)
	e.GET("/users", h.Users.Index, requireLogin)
	e.GET("/users/:id", h.Users.Show)
	e.GET("/users/:id/edit", h.Users.Edit, requireLogin, correctUser)
	e.PATCH("/users/:id", h.Users.Update, requireLogin, correctUser)
	e.DELETE("/users/:id", h.Users.Destroy, requireLogin, admin)
	e.GET("/users/:id/following", h.Users.Following, requireLogin)
	e.GET("/users/:id/followers", h.Users.Followers, requireLogin)

	// Microposts and relationships
	e.POST("/microposts", h.Microposts.Create, requireLogin)
	e.DELETE("/microposts/:id", h.Microposts.Destroy, requireLogin)
	e.POST("/relationships", h.Relationships.Create, requireLogin)
	e.DELETE("/relationships/:id", h.Relationships.Destroy, requireLogin)

	api := e.Group("/api")

	// Public routes
	api.POST("/tokens", h.Auth.CreateToken)

	// Secured routes (require a bearer access token)
	secured := api.Group("", appmw.APIAuth(authService, logger))
	secured.DELETE("/tokens", h.Auth.DeleteToken)
	secured.GET("/me", h.API.Me)
	secured.GET("/feed", h.API.Feed)
	secured.GET("/users/:id/following", h.API.Following)
	secured.GET("/users/:id/followers", h.API.Followers)
}

// methodFromForm reads the tunnelled method from a form field. Routes are
// registered upper-case, so the value is normalised.
func methodFromForm(field string) middleware.MethodOverrideGetter {
	return func(c echo.Context) string {
		return strings.ToUpper(strings.TrimSpace(c.FormValue(field)))
	}
}

func skipAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validation.Validator
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
