package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sampleapp/internal/auth"
	"sampleapp/internal/cache"
	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/model"
	"sampleapp/internal/repository"
	"sampleapp/internal/validation"
)

const userCacheTTL = 5 * time.Minute

// UserParams is the user-editable part of a User. An empty Password on update
// leaves the stored password unchanged.
type UserParams struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// UserService exposes registration, profile and administration operations.
type UserService interface {
	Register(ctx context.Context, params UserParams) (*model.User, error)
	Update(ctx context.Context, id uint, params UserParams) (*model.User, error)
	Validate(ctx context.Context, params UserParams, existing *model.User) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context, page int) ([]model.User, Pagination, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo      repository.UserRepository
	hasher    *auth.Hasher
	validator *validation.Validator
	cache     *cache.Client
	perPage   int
	log       logrus.FieldLogger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(
	repo repository.UserRepository,
	hasher *auth.Hasher,
	validator *validation.Validator,
	cache *cache.Client,
	perPage int,
	log logrus.FieldLogger,
) UserService {
	return &userService{
		repo:      repo,
		hasher:    hasher,
		validator: validator,
		cache:     cache,
		perPage:   perPageOr(perPage),
		log:       log,
	}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Validate runs the user rule pipeline. existing is nil for a new user; it
// also excludes that user from the uniqueness check.
func (s *userService) Validate(ctx context.Context, params UserParams, existing *model.User) error {
	email := model.NormalizeEmail(params.Email)

	p := s.validator.Pipeline().
		Field("name", params.Name, validation.Presence(), validation.MaxLength(model.NameMaxLength)).
		Field("email", email, validation.Presence(), validation.MaxLength(model.EmailMaxLength), validation.EmailFormat())

	if email != "" {
		var exceptID uint
		if existing != nil {
			exceptID = existing.ID
		}
		taken, err := s.repo.EmailTaken(ctx, email, exceptID)
		if err != nil {
			return fmt.Errorf("check email uniqueness: %w", err)
		}
		if taken {
			p.Add("email", "uniqueness", "has already been taken")
		}
	}

	if existing == nil || params.Password != "" {
		p.Field("password", params.Password,
			validation.Presence(),
			validation.MinLength(model.PasswordMinLength),
			validation.MaxLength(model.PasswordMaxLength)).
			Field("password_confirmation", params.PasswordConfirmation,
				validation.Confirmation(params.Password, "Password"))
	}
	return p.Err()
}

// Register validates params and creates the user with a hashed password.
func (s *userService) Register(ctx context.Context, params UserParams) (*model.User, error) {
	if err := s.Validate(ctx, params, nil); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Digest(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:           params.Name,
		Email:          params.Email,
		PasswordDigest: digest,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID}).Info("user registered")
	return user, nil
}

// Update applies params to the user. A blank password keeps the current one.
func (s *userService) Update(ctx context.Context, id uint, params UserParams) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.Validate(ctx, params, user); err != nil {
		return nil, err
	}

	user.Name = params.Name
	user.Email = params.Email
	if params.Password != "" {
		digest, err := s.hasher.Digest(params.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordDigest = digest
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEntry):
			return nil, emailTaken()
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// GetUser returns a user for display, served from cache when possible.
// Cached copies carry no digests.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, page int) ([]model.User, Pagination, error) {
	users, total, err := s.repo.List(ctx, pageOf(page, s.perPage))
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list users: %w", err)
	}
	return users, newPagination(page, s.perPage, total), nil
}

// DeleteUser removes the user and everything it owns atomically.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.log.WithFields(logrus.Fields{"user_id": id}).Info("user deleted")
	return nil
}

func emailTaken() error {
	return validation.Single("email", "uniqueness", "has already been taken")
}

// notFound maps repository.ErrNotFound to ErrUserNotFound and wraps anything else.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrUserNotFound
	}
	return fmt.Errorf("load user: %w", err)
}
