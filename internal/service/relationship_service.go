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

// Stats summarizes a user's social graph and posts.
type Stats struct {
	Microposts int64 `json:"microposts"`
	Following  int64 `json:"following"`
	Followers  int64 `json:"followers"`
}

// RelationshipService maintains the follow graph between users.
type RelationshipService interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	Relationship(ctx context.Context, id uint) (*model.Relationship, error)
	Between(ctx context.Context, followerID, followedID uint) (*model.Relationship, error)
	Following(ctx context.Context, userID uint, page int) ([]model.User, Pagination, error)
	Followers(ctx context.Context, userID uint, page int) ([]model.User, Pagination, error)
	Stats(ctx context.Context, userID uint) (Stats, error)
}

type relationshipService struct {
	relations repository.RelationshipRepository
	users     repository.UserRepository
	posts     repository.MicropostRepository
	perPage   int
	log       logrus.FieldLogger
}

// NewRelationshipService creates a new relationship service.
func NewRelationshipService(
	relations repository.RelationshipRepository,
	users repository.UserRepository,
	posts repository.MicropostRepository,
	perPage int,
	log logrus.FieldLogger,
) RelationshipService {
	return &relationshipService{
		relations: relations,
		users:     users,
		posts:     posts,
		perPage:   perPageOr(perPage),
		log:       log,
	}
}

// Follow adds the edge followerID -> followedID. Following someone already
// followed changes nothing. Self-follows are rejected. A duplicate insert
// that loses a race against a concurrent follow is reported as a validation
// error.
func (s *relationshipService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return validation.Single("followed_id", "self_follow", "can't be yourself")
	}
	if _, err := s.users.FindByID(ctx, followedID); err != nil {
		return notFound(err)
	}

	exists, err := s.relations.Exists(ctx, followerID, followedID)
	if err != nil {
		return fmt.Errorf("check relationship: %w", err)
	}
	if exists {
		return nil
	}

	err = s.relations.Create(ctx, &model.Relationship{FollowerID: followerID, FollowedID: followedID})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return validation.Single("followed_id", "uniqueness", "is already followed")
		}
		return fmt.Errorf("create relationship: %w", err)
	}

	s.log.WithFields(logrus.Fields{"follower_id": followerID, "followed_id": followedID}).Info("followed")
	return nil
}

// Unfollow removes the edge. Missing edges are a no-op.
func (s *relationshipService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	if err := s.relations.Delete(ctx, followerID, followedID); err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	if followerID == 0 || followedID == 0 {
		return false, nil
	}
	return s.relations.Exists(ctx, followerID, followedID)
}

func (s *relationshipService) Relationship(ctx context.Context, id uint) (*model.Relationship, error) {
	rel, err := s.relations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("find relationship: %w", err)
	}
	return rel, nil
}

// Between returns the edge followerID -> followedID, or
// ErrRelationshipNotFound.
func (s *relationshipService) Between(ctx context.Context, followerID, followedID uint) (*model.Relationship, error) {
	rel, err := s.relations.Find(ctx, followerID, followedID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("find relationship: %w", err)
	}
	return rel, nil
}

func (s *relationshipService) Following(ctx context.Context, userID uint, page int) ([]model.User, Pagination, error) {
	users, total, err := s.relations.Following(ctx, userID, pageOf(page, s.perPage))
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list following: %w", err)
	}
	return users, newPagination(page, s.perPage, total), nil
}

func (s *relationshipService) Followers(ctx context.Context, userID uint, page int) ([]model.User, Pagination, error) {
	users, total, err := s.relations.Followers(ctx, userID, pageOf(page, s.perPage))
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list followers: %w", err)
	}
	return users, newPagination(page, s.perPage, total), nil
}

func (s *relationshipService) Stats(ctx context.Context, userID uint) (Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.Microposts, err = s.posts.CountByUser(ctx, userID); err != nil {
		return Stats{}, fmt.Errorf("count microposts: %w", err)
	}
	if st.Following, err = s.relations.CountFollowing(ctx, userID); err != nil {
		return Stats{}, fmt.Errorf("count following: %w", err)
	}
	if st.Followers, err = s.relations.CountFollowers(ctx, userID); err != nil {
		return Stats{}, fmt.Errorf("count followers: %w", err)
	}
	return st, nil
}
