package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sampleapp/internal/service"
	"sampleapp/internal/session"
	"sampleapp/internal/validation"
	"sampleapp/internal/view"
)

// StaticHandler serves the home and help pages.
type StaticHandler struct {
	base
	posts     service.MicropostService
	relations service.RelationshipService
}

// NewStaticHandler creates a new static page handler.
func NewStaticHandler(sessions *session.Manager, posts service.MicropostService, relations service.RelationshipService) *StaticHandler {
	return &StaticHandler{base: base{sessions: sessions}, posts: posts, relations: relations}
}

// Home renders the landing page, or the composer and feed when logged in.
func (h *StaticHandler) Home(c echo.Context) error {
	return h.home(c, http.StatusOK, "", nil)
}

// home also backs a failed micropost submission, which re-renders the
// composer with content and errors.
func (h *StaticHandler) home(c echo.Context, status int, content string, errs validation.Errors) error {
	current := h.sessions.CurrentUser(c)
	if current == nil {
		return h.render(c, status, "home", "", nil, nil)
	}

	ctx := c.Request().Context()
	stats, err := h.relations.Stats(ctx, current.ID)
	if err != nil {
		return err
	}
	feed, page, err := h.posts.Feed(ctx, current.ID, pageParam(c))
	if err != nil {
		return err
	}
	return h.render(c, status, "home", "", view.HomeData{
		User:       current,
		Stats:      stats,
		Feed:       feed,
		Pagination: page,
		Content:    content,
	}, errs)
}

// Help renders the help page.
func (h *StaticHandler) Help(c echo.Context) error {
	return h.render(c, http.StatusOK, "help", "Help", nil, nil)
}
