package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
)

// RelationshipHandler follows and unfollows users.
type RelationshipHandler struct {
	base
	relations service.RelationshipService
}

// NewRelationshipHandler creates a new relationship handler.
func NewRelationshipHandler(sessions *session.Manager, relations service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{base: base{sessions: sessions}, relations: relations}
}

// Create follows the user named by followed_id.
func (h *RelationshipHandler) Create(c echo.Context) error {
	followedID, err := strconv.ParseUint(c.FormValue("followed_id"), 10, 64)
	if err != nil || followedID == 0 {
		return apperrors.ErrUserNotFound
	}

	user := h.sessions.CurrentUser(c)
	if err := h.relations.Follow(c.Request().Context(), user.ID, uint(followedID)); err != nil {
		if verrs, ok := asValidation(err); ok {
			h.flash(c, session.FlashDanger, verrs.FullMessages()[0])
		} else {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, userPath(uint(followedID)))
}

// Destroy removes the edge :id. Only the follower may remove it.
func (h *RelationshipHandler) Destroy(c echo.Context) error {
	id, err := idParam(c, "id", apperrors.ErrRelationshipNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	rel, err := h.relations.Relationship(ctx, id)
	if err != nil {
		return err
	}
	user := h.sessions.CurrentUser(c)
	if rel.FollowerID != user.ID {
		return apperrors.ErrForbidden
	}
	if err := h.relations.Unfollow(ctx, user.ID, rel.FollowedID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, userPath(rel.FollowedID))
}
