package middleware

import (
	"net/http"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"sampleapp/internal/auth"
	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
)

// ClaimsKey is where the API middleware leaves the validated *auth.Claims.
const ClaimsKey = "claims"

// RequireLogin sends anonymous visitors to the login page, remembering
// where they were headed.
func RequireLogin(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.LoggedIn(c) {
				return next(c)
			}
			m.StoreLocation(c)
			session.From(c).SetFlash(session.FlashDanger, "Please log in.")
			return c.Redirect(http.StatusSeeOther, "/login")
		}
	}
}

// RequireCorrectUser lets a request through only when the :id route
// parameter is the logged-in user, failing with ErrForbidden otherwise. Must
// run after RequireLogin.
func RequireCorrectUser(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseUint(c.Param("id"), 10, 64)
			current := m.CurrentUser(c)
			if err != nil || current == nil || current.ID != uint(id) {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireAdmin lets administrators through and fails with ErrForbidden for
// everyone else. Must run after RequireLogin.
func RequireAdmin(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if current := m.CurrentUser(c); current == nil || !current.Admin {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// APIAuth validates bearer access tokens through authService, so revoked
// tokens are rejected as well as forged or expired ones.
func APIAuth(authService service.AuthService, logger logrus.FieldLogger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := authService.ValidateAccessToken(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.WithError(err).WithField("path", c.Path()).Debug("api token rejected")
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// Claims returns the access token claims set by APIAuth.
func Claims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*auth.Claims)
	return claims, ok
}
