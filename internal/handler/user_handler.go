package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/model"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
	"sampleapp/internal/view"
)

// UserHandler serves signup, profiles, settings and the user listings.
type UserHandler struct {
	base
	users     service.UserService
	posts     service.MicropostService
	relations service.RelationshipService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(
	sessions *session.Manager,
	users service.UserService,
	posts service.MicropostService,
	relations service.RelationshipService,
) *UserHandler {
	return &UserHandler{
		base:      base{sessions: sessions},
		users:     users,
		posts:     posts,
		relations: relations,
	}
}

// UserForm is the signup and settings form submission.
type UserForm struct {
	Name                 string `form:"name"`
	Email                string `form:"email"`
	Password             string `form:"password"`
	PasswordConfirmation string `form:"password_confirmation"`
}

func (f UserForm) params() service.UserParams {
	return service.UserParams{
		Name:                 f.Name,
		Email:                f.Email,
		Password:             f.Password,
		PasswordConfirmation: f.PasswordConfirmation,
	}
}

// New renders the signup form.
func (h *UserHandler) New(c echo.Context) error {
	return h.render(c, http.StatusOK, "signup", "Sign up", view.UserForm{}, nil)
}

// Create registers a user and logs them in.
func (h *UserHandler) Create(c echo.Context) error {
	var form UserForm
	if err := c.Bind(&form); err != nil {
		return errBadRequest
	}

	user, err := h.users.Register(c.Request().Context(), form.params())
	if err != nil {
		if verrs, ok := asValidation(err); ok {
			return h.render(c, http.StatusUnprocessableEntity, "signup", "Sign up",
				view.UserForm{Name: form.Name, Email: form.Email}, verrs)
		}
		return err
	}

	h.sessions.LogIn(c, user)
	h.flash(c, session.FlashSuccess, "Welcome to the Sample App!")
	return c.Redirect(http.StatusSeeOther, userPath(user.ID))
}

// Show renders a profile with its microposts.
func (h *UserHandler) Show(c echo.Context) error {
	id, err := idParam(c, "id", apperrors.ErrUserNotFound)
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
	posts, page, err := h.posts.ListByUser(ctx, id, pageParam(c))
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].User = user
	}

	data := view.UserShowData{
		User:       user,
		Stats:      stats,
		Microposts: posts,
		Pagination: page,
		Path:       userPath(id),
	}
	if current := h.sessions.CurrentUser(c); current != nil && current.ID != id {
		rel, err := h.relations.Between(ctx, current.ID, id)
		switch {
		case err == nil:
			data.RelationshipID = rel.ID
		case !errors.Is(err, apperrors.ErrRelationshipNotFound):
			return err
		}
	}
	return h.render(c, http.StatusOK, "user_show", user.Name, data, nil)
}

// Index lists every user.
func (h *UserHandler) Index(c echo.Context) error {
	users, page, err := h.users.ListUsers(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "users_index", "All users",
		view.UsersIndexData{Users: users, Pagination: page}, nil)
}

// Edit renders the settings form for the current user.
func (h *UserHandler) Edit(c echo.Context) error {
	user := h.sessions.CurrentUser(c)
	return h.render(c, http.StatusOK, "user_edit", "Edit user", editForm(user, user.Name, user.Email), nil)
}

// Update saves the settings form. A blank password keeps the current one.
func (h *UserHandler) Update(c echo.Context) error {
	user := h.sessions.CurrentUser(c)
	var form UserForm
	if err := c.Bind(&form); err != nil {
		return errBadRequest
	}

	updated, err := h.users.Update(c.Request().Context(), user.ID, form.params())
	if err != nil {
		if verrs, ok := asValidation(err); ok {
			return h.render(c, http.StatusUnprocessableEntity, "user_edit", "Edit user",
				editForm(user, form.Name, form.Email), verrs)
		}
		return err
	}

	h.flash(c, session.FlashSuccess, "Profile updated")
	return c.Redirect(http.StatusSeeOther, userPath(updated.ID))
}

// Destroy deletes a user with all their microposts and relationships.
// Admins cannot delete themselves here.
func (h *UserHandler) Destroy(c echo.Context) error {
	id, err := idParam(c, "id", apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}
	if current := h.sessions.CurrentUser(c); current.ID == id {
		return c.Redirect(http.StatusSeeOther, "/users")
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	h.flash(c, session.FlashSuccess, "User deleted")
	return c.Redirect(http.StatusSeeOther, "/users")
}

// Following lists the users :id follows.
func (h *UserHandler) Following(c echo.Context) error {
	return h.followList(c, "Following", "following", h.relations.Following)
}

// Followers lists the users following :id.
func (h *UserHandler) Followers(c echo.Context) error {
	return h.followList(c, "Followers", "followers", h.relations.Followers)
}

type userLister func(ctx context.Context, userID uint, page int) ([]model.User, service.Pagination, error)

func (h *UserHandler) followList(c echo.Context, title, segment string, list userLister) error {
	id, err := idParam(c, "id", apperrors.ErrUserNotFound)
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
	users, page, err := list(ctx, id, pageParam(c))
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "follow_list", title, view.FollowData{
		User:       user,
		Stats:      stats,
		Users:      users,
		Pagination: page,
		Path:       fmt.Sprintf("/users/%d/%s", id, segment),
	}, nil)
}

func editForm(user *model.User, name, email string) view.UserForm {
	return view.UserForm{ID: user.ID, Name: name, Email: email, User: user}
}
