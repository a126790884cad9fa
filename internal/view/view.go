// Package view renders the HTML pages from templates embedded in the binary.
package view

import (
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"sampleapp/internal/model"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
	"sampleapp/internal/validation"
)

//go:embed templates
var templateFS embed.FS

// Page carries what the layout needs plus the page-specific Data.
type Page struct {
	Title       string
	CurrentUser *model.User
	Flashes     []session.Flash
	CSRF        string
	Errors      validation.Errors
	Data        interface{}
}

// LoggedIn reports whether the page is rendered for a logged-in user.
func (p Page) LoggedIn() bool { return p.CurrentUser != nil }

// IsCurrentUser reports whether u is the viewer.
func (p Page) IsCurrentUser(u *model.User) bool {
	return p.CurrentUser != nil && u != nil && p.CurrentUser.ID == u.ID
}

// IsAdmin reports whether the viewer is an administrator.
func (p Page) IsAdmin() bool {
	return p.CurrentUser != nil && p.CurrentUser.Admin
}

// FullTitle appends the site name.
func (p Page) FullTitle() string {
	if p.Title == "" {
		return siteName
	}
	return p.Title + " | " + siteName
}

const siteName = "Sample App"

// Renderer implements echo.Renderer over the embedded page set.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with the layout and partials.
func New() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		page := strings.TrimSuffix(path.Base(name), ".html")
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials/*.html",
			name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render executes the layout for the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

var funcs = template.FuncMap{
	"gravatar":  Gravatar,
	"pluralize": Pluralize,
	"timeAgo":   TimeAgo,
	"hasError": func(errs validation.Errors, field string) bool {
		return len(errs.On(field)) > 0
	},
	"posts": func(posts []model.Micropost, viewer *model.User, csrf string) PostList {
		return PostList{Posts: posts, Viewer: viewer, CSRF: csrf}
	},
	"pager": func(path string, p service.Pagination) Pager {
		return Pager{Path: path, Pagination: p}
	},
}

// Gravatar returns the avatar URL for user at size pixels.
func Gravatar(user *model.User, size int) string {
	if user == nil {
		return ""
	}
	sum := md5.Sum([]byte(model.NormalizeEmail(user.Email)))
	return fmt.Sprintf("https://secure.gravatar.com/avatar/%s?s=%d", hex.EncodeToString(sum[:]), size)
}

// Pluralize renders "1 micropost" or "3 microposts".
func Pluralize(count int64, singular string) string {
	if count == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %ss", count, singular)
}

// TimeAgo renders a coarse age such as "5 minutes".
func TimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "less than a minute"
	case d < time.Hour:
		return Pluralize(int64(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return Pluralize(int64(d/time.Hour), "hour")
	default:
		return Pluralize(int64(d/(24*time.Hour)), "day")
	}
}
