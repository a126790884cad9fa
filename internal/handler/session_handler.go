package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
	"sampleapp/internal/view"
)

// SessionHandler logs users in and out.
type SessionHandler struct {
	base
	auth service.AuthService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *session.Manager, auth service.AuthService) *SessionHandler {
	return &SessionHandler{base: base{sessions: sessions}, auth: auth}
}

// LoginForm is the login form submission.
type LoginForm struct {
	Email      string   `form:"email"`
	Password   string   `form:"password"`
	RememberMe []string `form:"remember_me"`
}

// remember reads the checkbox. The form posts a hidden "0" ahead of the
// checkbox, so the last value wins.
func (f LoginForm) remember() bool {
	return len(f.RememberMe) > 0 && f.RememberMe[len(f.RememberMe)-1] == "1"
}

// New renders the login form.
func (h *SessionHandler) New(c echo.Context) error {
	return h.render(c, http.StatusOK, "login", "Log in", view.LoginData{}, nil)
}

// Create logs the user in. remember_me "1" sets the permanent cookie, any
// other value forgets it.
func (h *SessionHandler) Create(c echo.Context) error {
	var form LoginForm
	if err := c.Bind(&form); err != nil {
		return errBadRequest
	}

	user, err := h.auth.Authenticate(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			session.From(c).FlashNow(session.FlashDanger, "Invalid email/password combination")
			return h.render(c, http.StatusUnprocessableEntity, "login", "Log in", view.LoginData{Email: form.Email}, nil)
		}
		return err
	}

	h.sessions.LogIn(c, user)
	if form.remember() {
		err = h.sessions.Remember(c, user)
	} else {
		err = h.sessions.Forget(c, user)
	}
	if err != nil {
		return err
	}
	return h.sessions.RedirectBackOr(c, userPath(user.ID))
}

// Destroy logs out. Logging out twice is harmless.
func (h *SessionHandler) Destroy(c echo.Context) error {
	if h.sessions.LoggedIn(c) {
		if err := h.sessions.LogOut(c); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
