package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
)

// MicropostHandler posts and deletes microposts.
type MicropostHandler struct {
	base
	posts  service.MicropostService
	static *StaticHandler
}

// NewMicropostHandler creates a new micropost handler. static re-renders the
// home page when a post is rejected.
func NewMicropostHandler(sessions *session.Manager, posts service.MicropostService, static *StaticHandler) *MicropostHandler {
	return &MicropostHandler{base: base{sessions: sessions}, posts: posts, static: static}
}

// MicropostForm is the composer submission.
type MicropostForm struct {
	Content string `form:"content"`
}

// Create posts a micropost for the current user.
func (h *MicropostHandler) Create(c echo.Context) error {
	var form MicropostForm
	if err := c.Bind(&form); err != nil {
		return errBadRequest
	}

	user := h.sessions.CurrentUser(c)
	if _, err := h.posts.Create(c.Request().Context(), user.ID, form.Content); err != nil {
		if verrs, ok := asValidation(err); ok {
			return h.static.home(c, http.StatusUnprocessableEntity, form.Content, verrs)
		}
		return err
	}

	h.flash(c, session.FlashSuccess, "Micropost created!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Destroy deletes one of the current user's microposts. Missing posts and
// posts owned by someone else redirect home.
func (h *MicropostHandler) Destroy(c echo.Context) error {
	id, err := idParam(c, "id", apperrors.ErrMicropostNotFound)
	if err != nil {
		return err
	}

	user := h.sessions.CurrentUser(c)
	if err := h.posts.Delete(c.Request().Context(), user.ID, id); err != nil {
		if errors.Is(err, apperrors.ErrMicropostNotFound) {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}

	h.flash(c, session.FlashSuccess, "Micropost deleted")
	return redirectBack(c, "/")
}
