package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_DigestAndMatches(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Digest("foobar")
	require.NoError(t, err)
	assert.NotEqual(t, "foobar", digest)

	assert.True(t, Matches(digest, "foobar"))
	assert.False(t, Matches(digest, "foobaz"))
	assert.False(t, Matches("", ""))
	assert.False(t, Matches("", "foobar"))
}

func TestHasher_SaltsEveryDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, err := h.Digest("foobar")
	require.NoError(t, err)
	b, err := h.Digest("foobar")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNewHasher_FallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).cost)
}

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := NewToken()
		require.NoError(t, err)
		assert.Len(t, token, 22)
		assert.False(t, strings.ContainsAny(token, "+/="), "token %q should be URL safe", token)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestJWTService_AccessToken(t *testing.T) {
	s := NewJWTService("test-secret")

	tokenID, token, err := s.GenerateAccessToken(7, "user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	claims, err := s.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, tokenID, claims.ID)

	_, _, err = s.ParseRememberToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens must not work as remember cookies")
}

func TestJWTService_RememberToken(t *testing.T) {
	s := NewJWTService("test-secret")

	value, err := s.GenerateRememberToken(3, "raw-token")
	require.NoError(t, err)

	userID, raw, err := s.ParseRememberToken(value)
	require.NoError(t, err)
	assert.Equal(t, uint(3), userID)
	assert.Equal(t, "raw-token", raw)

	_, err = s.ValidateAccessToken(value)
	assert.ErrorIs(t, err, ErrInvalidToken, "remember cookies must not work as access tokens")
}

func TestJWTService_RejectsForeignAndExpiredTokens(t *testing.T) {
	s := NewJWTService("test-secret")

	_, foreign, err := NewJWTService("other-secret").GenerateAccessToken(1, "a@b.com")
	require.NoError(t, err)
	_, err = s.ValidateAccessToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Subject:   subjectAccess,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateAccessToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
