package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/session"
	"sampleapp/internal/validation"
	"sampleapp/internal/view"
)

// base holds what every HTML handler needs to build a page.
type base struct {
	sessions *session.Manager
}

func (b base) page(c echo.Context, title string, data interface{}, errs validation.Errors) view.Page {
	csrf, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return view.Page{
		Title:       title,
		CurrentUser: b.sessions.CurrentUser(c),
		Flashes:     session.From(c).Flashes(),
		CSRF:        csrf,
		Errors:      errs,
		Data:        data,
	}
}

func (b base) render(c echo.Context, status int, name, title string, data interface{}, errs validation.Errors) error {
	return c.Render(status, name, b.page(c, title, data, errs))
}

func (b base) flash(c echo.Context, kind, message string) {
	session.From(c).SetFlash(kind, message)
}

func userPath(id uint) string {
	return fmt.Sprintf("/users/%d", id)
}

// idParam parses a positive integer route parameter. Anything else reads as
// a missing record.
func idParam(c echo.Context, name string, notFound error) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func asValidation(err error) (validation.Errors, bool) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// redirectBack returns to the referring page when it is on this site, or
// to fallback otherwise. Only the path and query of the referer are used.
func redirectBack(c echo.Context, fallback string) error {
	req := c.Request()
	if ref, err := url.Parse(req.Referer()); err == nil && ref.IsAbs() && ref.Host == req.Host {
		return c.Redirect(http.StatusSeeOther, ref.RequestURI())
	}
	return c.Redirect(http.StatusSeeOther, fallback)
}

var errBadRequest = apperrors.NewHTTPError(http.StatusBadRequest, "invalid request", "BAD_REQUEST")
