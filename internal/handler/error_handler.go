package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/session"
	"sampleapp/internal/view"
)

// ErrorHandler renders errors as JSON under /api and as HTML pages elsewhere.
func ErrorHandler(logger logrus.FieldLogger, sessions *session.Manager) echo.HTTPErrorHandler {
	pages := base{sessions: sessions}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		entry := logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"uri":    c.Request().RequestURI,
			"status": httpErr.StatusCode,
		})
		if httpErr.StatusCode >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		var writeErr error
		switch {
		case c.Request().Method == http.MethodHead:
			writeErr = c.NoContent(httpErr.StatusCode)
		case isAPI(c):
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		case errors.Is(err, apperrors.ErrForbidden):
			writeErr = c.Redirect(http.StatusSeeOther, "/")
		default:
			writeErr = pages.render(c, httpErr.StatusCode, "error", http.StatusText(httpErr.StatusCode),
				view.ErrorData{Status: httpErr.StatusCode, Message: httpErr.Message}, nil)
		}
		if writeErr != nil {
			logger.WithError(writeErr).Error("writing error response")
		}
	}
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

// toHTTPError folds echo errors, HTTPError values and domain errors into an
// HTTPError.
func toHTTPError(err error) *apperrors.HTTPError {
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		out := apperrors.NewHTTPError(echoErr.Code, http.StatusText(echoErr.Code), strings.ToUpper(strings.ReplaceAll(http.StatusText(echoErr.Code), " ", "_")))
		switch msg := echoErr.Message.(type) {
		case apperrors.ErrorResponse:
			out.Message, out.Code, out.Fields = msg.Error, msg.Code, msg.Fields
		case string:
			out.Message = msg
		}
		return out
	}
	return apperrors.MapErrorToHTTP(err)
}
