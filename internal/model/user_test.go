package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sampleapp/internal/auth"
)

func newUser(t *testing.T) *User {
	t.Helper()
	digest, err := auth.NewHasher(bcrypt.MinCost).Digest("foobar")
	require.NoError(t, err)
	return &User{Name: "Example User", Email: "user@example.com", PasswordDigest: digest}
}

func TestUser_Authenticate(t *testing.T) {
	u := newUser(t)

	assert.True(t, u.Authenticate("foobar"))
	assert.False(t, u.Authenticate("wrong"))
	assert.False(t, (&User{}).Authenticate("foobar"), "no digest means no match")
}

func TestUser_AuthenticatedWithNilDigest(t *testing.T) {
	u := newUser(t)

	assert.False(t, u.Authenticated(DigestRemember, ""))
	assert.False(t, u.Authenticated(DigestRemember, "anything"))
}

func TestUser_AuthenticatedRemember(t *testing.T) {
	u := newUser(t)
	digest, err := auth.NewHasher(bcrypt.MinCost).Digest("token")
	require.NoError(t, err)
	u.RememberDigest = &digest

	assert.True(t, u.Authenticated(DigestRemember, "token"))
	assert.False(t, u.Authenticated(DigestRemember, "other"))
	assert.False(t, u.Authenticated(DigestKind("activation"), "token"))
}

func TestUser_BeforeSaveLowercasesEmail(t *testing.T) {
	u := &User{Email: " Foo@ExAMPle.CoM "}
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, "foo@example.com", u.Email)
}
