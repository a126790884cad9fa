package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/model"
	"sampleapp/internal/repository"
	"sampleapp/internal/validation"
)

// MicropostService handles posting, deleting, listing and the feed.
type MicropostService interface {
	Create(ctx context.Context, userID uint, content string) (*model.Micropost, error)
	Delete(ctx context.Context, userID, postID uint) error
	ListByUser(ctx context.Context, userID uint, page int) ([]model.Micropost, Pagination, error)
	Feed(ctx context.Context, userID uint, page int) ([]model.Micropost, Pagination, error)
}

type micropostService struct {
	repo      repository.MicropostRepository
	validator *validation.Validator
	perPage   int
	log       logrus.FieldLogger
}

// NewMicropostService creates a new micropost service.
func NewMicropostService(
	repo repository.MicropostRepository,
	validator *validation.Validator,
	perPage int,
	log logrus.FieldLogger,
) MicropostService {
	return &micropostService{
		repo:      repo,
		validator: validator,
		perPage:   perPageOr(perPage),
		log:       log,
	}
}

func (s *micropostService) Create(ctx context.Context, userID uint, content string) (*model.Micropost, error) {
	err := s.validator.Pipeline().
		Field("content", content, validation.Presence(), validation.MaxLength(model.MicropostMaxLength)).
		Err()
	if err != nil {
		return nil, err
	}

	post := &model.Micropost{UserID: userID, Content: content}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create micropost: %w", err)
	}
	return post, nil
}

// Delete removes postID if userID owns it. Posts owned by someone else read
// as not found.
func (s *micropostService) Delete(ctx context.Context, userID, postID uint) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrMicropostNotFound
		}
		return fmt.Errorf("find micropost: %w", err)
	}
	if post.UserID != userID {
		return apperrors.ErrMicropostNotFound
	}
	if err := s.repo.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrMicropostNotFound
		}
		return fmt.Errorf("delete micropost: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "micropost_id": postID}).Info("micropost deleted")
	return nil
}

func (s *micropostService) ListByUser(ctx context.Context, userID uint, page int) ([]model.Micropost, Pagination, error) {
	posts, total, err := s.repo.ListByUser(ctx, userID, pageOf(page, s.perPage))
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list microposts: %w", err)
	}
	return posts, newPagination(page, s.perPage, total), nil
}

// Feed returns the user's own posts plus those of everyone they follow,
// newest first. It always reads the current follow graph.
func (s *micropostService) Feed(ctx context.Context, userID uint, page int) ([]model.Micropost, Pagination, error) {
	posts, total, err := s.repo.Feed(ctx, userID, pageOf(page, s.perPage))
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("load feed: %w", err)
	}
	return posts, newPagination(page, s.perPage, total), nil
}
