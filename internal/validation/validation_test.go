package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "USER@foo.COM", "A_US-ER@foo.bar.org", "first.last@foo.jp", "alice+bob@baz.cn"}
	for _, addr := range valid {
		assert.True(t, ValidEmail(addr), "%q should be valid", addr)
	}

	invalid := []string{"user@example,com", "user_at_foo.org", "user.name@example.", "foo@bar_baz.com", "foo@bar+baz.com", "foo@bar..com", ""}
	for _, addr := range invalid {
		assert.False(t, ValidEmail(addr), "%q should be invalid", addr)
	}
}

func TestPipeline_EveryRuleCounts(t *testing.T) {
	v := New()

	err := v.Pipeline().
		Field("name", "", Presence(), MaxLength(50)).
		Field("email", "foo@invalid", Presence(), MaxLength(255), EmailFormat()).
		Field("password", "foo", Presence(), MinLength(6)).
		Field("password_confirmation", "bar", Confirmation("foo", "Password")).
		Err()
	require.Error(t, err)

	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, 4, errs.Count())
	assert.Equal(t, "The form contains 4 errors.", errs.Summary())
	assert.True(t, errs.Has("name", "presence"))
	assert.True(t, errs.Has("email", "format"))
	assert.True(t, errs.Has("password", "min_length"))
	assert.True(t, errs.Has("password_confirmation", "confirmation"))
	assert.Equal(t, []string{
		"Name can't be blank",
		"Email is invalid",
		"Password is too short (minimum is 6 characters)",
		"Password confirmation doesn't match Password",
	}, errs.FullMessages())
}

func TestPipeline_SeveralRulesOnOneField(t *testing.T) {
	err := New().Pipeline().Field("email", " ", Presence(), EmailFormat()).Err()

	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs.On("email"), 2)
}

func TestPipeline_Passes(t *testing.T) {
	p := New().Pipeline().
		Field("name", "Example User", Presence(), MaxLength(50)).
		Field("password", "foobar", Presence(), MinLength(6)).
		Field("password_confirmation", "foobar", Confirmation("foobar", "Password"))

	assert.NoError(t, p.Err())
	assert.False(t, p.Failed("name"))
}

func TestRules(t *testing.T) {
	v := New()
	tests := []struct {
		name  string
		value string
		rule  Rule
		ok    bool
	}{
		{"presence rejects whitespace", "      ", Presence(), false},
		{"presence accepts text", "a", Presence(), true},
		{"max length at limit", strings.Repeat("a", 50), MaxLength(50), true},
		{"max length over limit", strings.Repeat("a", 51), MaxLength(50), false},
		{"min length under limit", "aaaaa", MinLength(6), false},
		{"min length at limit", "aaaaaa", MinLength(6), true},
		{"confirmation mismatch", "bar", Confirmation("foo", "Password"), false},
		{"confirmation match", "foo", Confirmation("foo", "Password"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Pipeline().Field("f", tt.value, tt.rule).Err()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestErrors_Summary(t *testing.T) {
	assert.Equal(t, "The form contains 1 error.", Single("email", "uniqueness", "has already been taken").Summary())
	assert.Equal(t, "Email has already been taken", Single("email", "uniqueness", "has already been taken")[0].FullMessage())
}

func TestAdd(t *testing.T) {
	p := New().Pipeline().Add("email", "uniqueness", "has already been taken")
	assert.True(t, p.Failed("email"))
	assert.Error(t, p.Err())
}
