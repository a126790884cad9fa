package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"sampleapp/internal/auth"
	"sampleapp/internal/model"
)

const contextKey = "session"

// Authenticator is the slice of the auth service the manager needs.
type Authenticator interface {
	UserByID(ctx context.Context, id uint) (*model.User, error)
	Remember(ctx context.Context, user *model.User) (string, error)
	Forget(ctx context.Context, user *model.User) error
	Remembered(ctx context.Context, id uint, token string) (*model.User, error)
}

// Options configures cookies and session lifetime.
type Options struct {
	CookieName     string
	RememberCookie string
	TTL            time.Duration
	Secure         bool
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = "_sample_app_session"
	}
	if o.RememberCookie == "" {
		o.RememberCookie = "remember_token"
	}
	if o.TTL <= 0 {
		o.TTL = 24 * time.Hour
	}
	return o
}

// Manager loads and commits sessions and implements login state on top of them.
type Manager struct {
	store  Store
	auth   Authenticator
	jwt    *auth.JWTService
	opts   Options
	logger logrus.FieldLogger
}

// NewManager creates a Manager.
func NewManager(store Store, authenticator Authenticator, jwtService *auth.JWTService, opts Options, logger logrus.FieldLogger) *Manager {
	return &Manager{
		store:  store,
		auth:   authenticator,
		jwt:    jwtService,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Middleware attaches a Session to every request and persists it right
// before the response is written.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := m.load(c)
			c.Set(contextKey, s)
			c.Response().Before(func() { m.commit(c, s) })

			err := next(c)
			if !c.Response().Committed {
				// nothing written yet; the error handler may still write later
				m.commit(c, s)
			}
			return err
		}
	}
}

func (m *Manager) load(c echo.Context) *Session {
	cookie, err := c.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return newSession("", nil)
	}
	data, err := m.store.Load(c.Request().Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.WithError(err).Warn("session load failed")
		}
		return newSession("", nil)
	}
	return newSession(cookie.Value, data)
}

func (m *Manager) commit(c echo.Context, s *Session) {
	if s.committed {
		return
	}
	s.committed = true
	ctx := c.Request().Context()

	for _, id := range s.oldIDs {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.WithError(err).Warn("session delete failed")
		}
	}

	if s.empty() {
		switch {
		case s.id != "" && s.dirty:
			if err := m.store.Delete(ctx, s.id); err != nil {
				m.logger.WithError(err).Warn("session delete failed")
			}
			s.id = ""
			m.expireCookie(c, m.opts.CookieName)
		case s.destroyed:
			m.expireCookie(c, m.opts.CookieName)
		}
		return
	}

	if s.id == "" {
		s.id = newSessionID()
		s.dirty = true
	}
	if !s.dirty {
		return
	}
	if err := m.store.Save(ctx, s.id, &s.data, m.opts.TTL); err != nil {
		m.logger.WithError(err).Error("session save failed")
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     m.opts.CookieName,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) expireCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.opts.Secure,
	})
}

// From returns the request's Session. Outside the middleware it returns a
// throwaway empty session so callers never see nil.
func From(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok {
		return s
	}
	s := newSession("", nil)
	c.Set(contextKey, s)
	return s
}

// LogIn starts an authenticated session for user under a fresh session id.
func (m *Manager) LogIn(c echo.Context, user *model.User) {
	s := From(c)
	s.Regenerate()
	s.setUserID(user.ID)
	s.user = user
	s.userLoaded = true
}

// Remember persists a new remember digest for user and sets the permanent
// signed cookie carrying the user id and raw token.
func (m *Manager) Remember(c echo.Context, user *model.User) error {
	token, err := m.auth.Remember(c.Request().Context(), user)
	if err != nil {
		return err
	}
	value, err := m.jwt.GenerateRememberToken(user.ID, token)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     m.opts.RememberCookie,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(auth.RememberExpiry),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Forget clears user's remember digest and deletes the cookie.
func (m *Manager) Forget(c echo.Context, user *model.User) error {
	m.expireCookie(c, m.opts.RememberCookie)
	return m.auth.Forget(c.Request().Context(), user)
}

// CurrentUser returns the logged-in user, falling back to the remember-me
// cookie. The result is memoized for the request.
func (m *Manager) CurrentUser(c echo.Context) *model.User {
	s := From(c)
	if s.userLoaded {
		return s.user
	}
	s.userLoaded = true
	ctx := c.Request().Context()

	if id := s.UserID(); id != 0 {
		user, err := m.auth.UserByID(ctx, id)
		if err != nil {
			m.logger.WithError(err).WithField("user_id", id).Info("dropping session for missing user")
			s.setUserID(0)
			return nil
		}
		s.user = user
		return user
	}

	cookie, err := c.Cookie(m.opts.RememberCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	id, token, err := m.jwt.ParseRememberToken(cookie.Value)
	if err != nil {
		return nil
	}
	user, err := m.auth.Remembered(ctx, id, token)
	if err != nil {
		return nil
	}
	m.LogIn(c, user)
	return user
}

// LoggedIn reports whether the request has a current user.
func (m *Manager) LoggedIn(c echo.Context) bool {
	return m.CurrentUser(c) != nil
}

// IsCurrentUser reports whether user is the logged-in user.
func (m *Manager) IsCurrentUser(c echo.Context, user *model.User) bool {
	current := m.CurrentUser(c)
	return current != nil && user != nil && current.ID == user.ID
}

// LogOut forgets the current user and destroys the session.
func (m *Manager) LogOut(c echo.Context) error {
	var err error
	if user := m.CurrentUser(c); user != nil {
		err = m.Forget(c, user)
	}
	From(c).Destroy()
	return err
}

// StoreLocation remembers the requested URL for friendly forwarding. Only
// GET requests are stored.
func (m *Manager) StoreLocation(c echo.Context) {
	if c.Request().Method != http.MethodGet {
		return
	}
	From(c).setForwardingURL(c.Request().URL.RequestURI())
}

// RedirectBackOr redirects to the stored location, or def when none is
// stored, and clears the stored location.
func (m *Manager) RedirectBackOr(c echo.Context, def string) error {
	s := From(c)
	target := s.ForwardingURL()
	if target == "" {
		target = def
	}
	s.setForwardingURL("")
	return c.Redirect(http.StatusSeeOther, target)
}
