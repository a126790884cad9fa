package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sampleapp/internal/auth"
	"sampleapp/internal/db/dbtest"
	"sampleapp/internal/model"
	"sampleapp/internal/repository"
	"sampleapp/internal/validation"
)

// stack wires real services over an in-memory database.
type stack struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	postRepo  repository.MicropostRepository
	relRepo   repository.RelationshipRepository
	users     UserService
	posts     MicropostService
	relations RelationshipService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gormDB := dbtest.New(t)
	v := validation.New()
	hasher := auth.NewHasher(bcrypt.MinCost)
	s := &stack{
		db:       gormDB,
		userRepo: repository.NewUserRepository(gormDB),
		postRepo: repository.NewMicropostRepository(gormDB),
		relRepo:  repository.NewRelationshipRepository(gormDB),
	}
	s.users = NewUserService(s.userRepo, hasher, v, nil, 0, quietLogger())
	s.posts = NewMicropostService(s.postRepo, v, 0, quietLogger())
	s.relations = NewRelationshipService(s.relRepo, s.userRepo, s.postRepo, 0, quietLogger())
	return s
}

func (s *stack) register(t *testing.T, name, email string) *model.User {
	t.Helper()
	u, err := s.users.Register(context.Background(), UserParams{
		Name:                 name,
		Email:                email,
		Password:             "foobar",
		PasswordConfirmation: "foobar",
	})
	require.NoError(t, err)
	return u
}

func validParams() UserParams {
	return UserParams{
		Name:                 "Example User",
		Email:                "user@example.com",
		Password:             "foobar",
		PasswordConfirmation: "foobar",
	}
}

func validationErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	return verrs
}
