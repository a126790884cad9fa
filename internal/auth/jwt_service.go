package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// AccessTokenExpiry is the duration for which API access tokens are valid.
	AccessTokenExpiry = 15 * time.Minute
	// RememberExpiry is how long a remember-me cookie stays valid.
	RememberExpiry = 20 * 365 * 24 * time.Hour
)

// Token subjects keep one kind of token from being replayed as another.
const (
	subjectAccess   = "access"
	subjectRemember = "remember"
)

// ErrInvalidToken is returned for malformed, expired or mis-scoped tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Remember string `json:"rmb,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and validates the tokens handed to clients.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// GenerateAccessToken generates an API access token for the user. The token
// ID is returned separately so it can be revoked later.
func (s *JWTService) GenerateAccessToken(userID uint, email string) (tokenID string, token string, err error) {
	tokenID = generateTokenID()
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   subjectAccess,
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return tokenID, token, err
}

// GenerateRememberToken signs the (user id, raw token) pair stored in the
// permanent remember-me cookie.
func (s *JWTService) GenerateRememberToken(userID uint, raw string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Remember: raw,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectRemember,
			ExpiresAt: jwt.NewNumericDate(now.Add(RememberExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateAccessToken validates an API access token and returns its claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Subject != subjectAccess || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRememberToken verifies a remember-me cookie value and returns the pair
// it carries.
func (s *JWTService) ParseRememberToken(tokenString string) (userID uint, raw string, err error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, "", err
	}
	if claims.Subject != subjectRemember || claims.UserID == 0 || claims.Remember == "" {
		return 0, "", ErrInvalidToken
	}
	return claims.UserID, claims.Remember, nil
}

func (s *JWTService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateTokenID() string {
	return uuid.New().String()
}
