package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"sampleapp/internal/errors"
	"sampleapp/internal/middleware"
	"sampleapp/internal/model"
	"sampleapp/internal/service"
)

// APIHandler serves the bearer-token JSON API.
type APIHandler struct {
	users     service.UserService
	posts     service.MicropostService
	relations service.RelationshipService
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(users service.UserService, posts service.MicropostService, relations service.RelationshipService) *APIHandler {
	return &APIHandler{users: users, posts: posts, relations: relations}
}

// ProfileResponse is a user with their graph counts.
type ProfileResponse struct {
	User  *model.User   `json:"user"`
	Stats service.Stats `json:"stats"`
}

// FeedResponse is one page of a feed.
type FeedResponse struct {
	Microposts []model.Micropost  `json:"microposts"`
	Pagination service.Pagination `json:"pagination"`
}

// UsersResponse is one page of users.
type UsersResponse struct {
	Users      []model.User       `json:"users"`
	Pagination service.Pagination `json:"pagination"`
}

func (h *APIHandler) userID(c echo.Context) (uint, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return 0, errors.ErrInvalidToken
	}
	return claims.UserID, nil
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *APIHandler) Me(c echo.Context) error {
	id, err := h.userID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.users.GetUser(ctx, id)
	if err != nil {
		return err
	}
	stats, err := h.relations.Stats(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProfileResponse{User: user, Stats: stats})
}

// Feed godoc
// @Summary Current user's feed
// @Tags microposts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Success 200 {object} FeedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /feed [get]
func (h *APIHandler) Feed(c echo.Context) error {
	id, err := h.userID(c)
	if err != nil {
		return err
	}
	posts, page, err := h.posts.Feed(c.Request().Context(), id, pageParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, FeedResponse{Microposts: posts, Pagination: page})
}

// Following godoc
// @Summary Users a user follows
// @Tags relationships
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Success 200 {object} UsersResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/following [get]
func (h *APIHandler) Following(c echo.Context) error {
	return h.userList(c, h.relations.Following)
}

// Followers godoc
// @Summary Users following a user
// @Tags relationships
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Success 200 {object} UsersResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/followers [get]
func (h *APIHandler) Followers(c echo.Context) error {
	return h.userList(c, h.relations.Followers)
}

func (h *APIHandler) userList(c echo.Context, list func(context.Context, uint, int) ([]model.User, service.Pagination, error)) error {
	id, err := idParam(c, "id", errors.ErrUserNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.users.GetUser(ctx, id); err != nil {
		return err
	}
	users, page, err := list(ctx, id, pageParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UsersResponse{Users: users, Pagination: page})
}
