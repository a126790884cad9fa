package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sampleapp/internal/model"
	"sampleapp/internal/service"
	"sampleapp/internal/session"
	"sampleapp/internal/validation"
)

func render(t *testing.T, name string, page Page) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, page, nil))
	return buf.String()
}

func TestEveryPageParses(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, name := range []string{"home", "help", "login", "signup", "user_edit", "user_show", "users_index", "follow_list", "error"} {
		assert.Contains(t, r.pages, name)
	}
}

func TestEditFormShowsErrorSummary(t *testing.T) {
	user := &model.User{ID: 1, Name: "Michael", Email: "michael@example.com"}
	errs := validation.Errors{
		{Field: "name", Rule: "presence", Message: "can't be blank"},
		{Field: "email", Rule: "format", Message: "is invalid"},
		{Field: "password", Rule: "min_length", Message: "is too short (minimum is 6 characters)"},
		{Field: "password_confirmation", Rule: "confirmation", Message: "doesn't match Password"},
	}

	html := render(t, "user_edit", Page{
		Title:       "Edit user",
		CurrentUser: user,
		Errors:      errs,
		Data:        UserForm{ID: 1, Email: "foo@invalid", User: user},
	})

	assert.Contains(t, html, "The form contains 4 errors.")
	assert.Contains(t, html, `value="foo@invalid"`)
	assert.Contains(t, html, "Email is invalid")
	assert.Contains(t, html, `action="/users/1"`)
	assert.Contains(t, html, "<title>Edit user | Sample App</title>")
}

func TestLayoutShowsFlashesAndNavigation(t *testing.T) {
	anon := render(t, "help", Page{Flashes: []session.Flash{{Kind: session.FlashInfo, Message: "Please log in."}}})
	assert.Contains(t, anon, `class="alert alert-info">Please log in.`)
	assert.Contains(t, anon, `href="/login"`)

	user := &model.User{ID: 3, Name: "Lana"}
	in := render(t, "help", Page{CurrentUser: user, CSRF: "tok"})
	assert.Contains(t, in, `href="/users/3/edit"`)
	assert.Contains(t, in, `name="_csrf" value="tok"`)
	assert.NotContains(t, in, `href="/login"`)
}

func TestHomeFeedShowsDeleteOnlyForOwnPosts(t *testing.T) {
	me := &model.User{ID: 1, Name: "Michael", Email: "michael@example.com"}
	other := &model.User{ID: 2, Name: "Lana", Email: "lana@example.com"}
	feed := []model.Micropost{
		{ID: 10, UserID: 1, Content: "mine", User: me, CreatedAt: time.Now()},
		{ID: 11, UserID: 2, Content: "theirs", User: other, CreatedAt: time.Now()},
	}

	html := render(t, "home", Page{
		CurrentUser: me,
		Data: HomeData{
			User:       me,
			Stats:      service.Stats{Microposts: 1, Following: 1},
			Feed:       feed,
			Pagination: service.Pagination{Page: 1, PerPage: 30, Total: 2},
		},
	})

	assert.Contains(t, html, "1 micropost")
	assert.Contains(t, html, `action="/microposts/10"`)
	assert.NotContains(t, html, `action="/microposts/11"`)
	assert.NotContains(t, html, `class="pagination"`)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "1 micropost", Pluralize(1, "micropost"))
	assert.Equal(t, "0 microposts", Pluralize(0, "micropost"))
	assert.Equal(t,
		"https://secure.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=50",
		Gravatar(&model.User{Email: "MyEmailAddress@example.com "}, 50))
	assert.Equal(t, "less than a minute", TimeAgo(time.Now()))
	assert.Equal(t, "2 hours", TimeAgo(time.Now().Add(-2*time.Hour-time.Minute)))
}
