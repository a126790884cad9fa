package repository

import (
	"context"

	"gorm.io/gorm"

	"sampleapp/internal/model"
)

// RelationshipRepository defines follow-edge persistence operations.
type RelationshipRepository interface {
	Create(ctx context.Context, rel *model.Relationship) error
	Delete(ctx context.Context, followerID, followedID uint) error
	FindByID(ctx context.Context, id uint) (*model.Relationship, error)
	Find(ctx context.Context, followerID, followedID uint) (*model.Relationship, error)
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	Following(ctx context.Context, userID uint, page Page) ([]model.User, int64, error)
	Followers(ctx context.Context, userID uint, page Page) ([]model.User, int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
}

type relationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository creates a new relationship repository.
func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

// Create inserts an edge. A second edge for the same pair fails with
// ErrDuplicateEntry from the unique index.
func (r *relationshipRepository) Create(ctx context.Context, rel *model.Relationship) error {
	return translate(r.db.WithContext(ctx).Create(rel).Error)
}

// Delete removes the edge for the pair. Missing edges are not an error.
func (r *relationshipRepository) Delete(ctx context.Context, followerID, followedID uint) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Relationship{}).Error
}

// FindByID finds an edge by ID.
func (r *relationshipRepository) FindByID(ctx context.Context, id uint) (*model.Relationship, error) {
	var rel model.Relationship
	if err := r.db.WithContext(ctx).First(&rel, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

// Find returns the edge followerID -> followedID.
func (r *relationshipRepository) Find(ctx context.Context, followerID, followedID uint) (*model.Relationship, error) {
	var rel model.Relationship
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&rel).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

// Exists reports whether followerID follows followedID.
func (r *relationshipRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Relationship{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	return n > 0, err
}

// Following lists the users userID follows.
func (r *relationshipRepository) Following(ctx context.Context, userID uint, page Page) ([]model.User, int64, error) {
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.User{}).
			Joins("JOIN relationships ON relationships.followed_id = users.id").
			Where("relationships.follower_id = ?", userID)
	}
	return r.users(scope, page)
}

// Followers lists the users following userID.
func (r *relationshipRepository) Followers(ctx context.Context, userID uint, page Page) ([]model.User, int64, error) {
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.User{}).
			Joins("JOIN relationships ON relationships.follower_id = users.id").
			Where("relationships.followed_id = ?", userID)
	}
	return r.users(scope, page)
}

// CountFollowing counts the users userID follows.
func (r *relationshipRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Relationship{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

// CountFollowers counts the users following userID.
func (r *relationshipRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Relationship{}).Where("followed_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *relationshipRepository) users(scope func() *gorm.DB, page Page) ([]model.User, int64, error) {
	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []model.User
	if err := page.apply(scope().Select("users.*").Order("users.id ASC")).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
