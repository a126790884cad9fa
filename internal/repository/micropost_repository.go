package repository

import (
	"context"

	"gorm.io/gorm"

	"sampleapp/internal/model"
)

// MicropostRepository defines micropost persistence operations.
type MicropostRepository interface {
	Create(ctx context.Context, post *model.Micropost) error
	FindByID(ctx context.Context, id uint) (*model.Micropost, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, page Page) ([]model.Micropost, int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
	Feed(ctx context.Context, userID uint, page Page) ([]model.Micropost, int64, error)
}

type micropostRepository struct {
	db *gorm.DB
}

// NewMicropostRepository creates a new micropost repository.
func NewMicropostRepository(db *gorm.DB) MicropostRepository {
	return &micropostRepository{db: db}
}

// Create creates a new micropost.
func (r *micropostRepository) Create(ctx context.Context, post *model.Micropost) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(post).Error)
}

// FindByID finds a micropost by ID.
func (r *micropostRepository) FindByID(ctx context.Context, id uint) (*model.Micropost, error) {
	var post model.Micropost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// Delete removes a micropost.
func (r *micropostRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Micropost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser lists a user's microposts, newest first.
func (r *micropostRepository) ListByUser(ctx context.Context, userID uint, page Page) ([]model.Micropost, int64, error) {
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Micropost{}).Where("user_id = ?", userID)
	}
	return r.list(scope, page)
}

// CountByUser counts a user's microposts.
func (r *micropostRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Micropost{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// Count counts all microposts.
func (r *micropostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Micropost{}).Count(&n).Error
	return n, err
}

// Feed returns the posts of userID and of everyone userID follows, newest
// first, in a single query with a subselect on relationships.
func (r *micropostRepository) Feed(ctx context.Context, userID uint, page Page) ([]model.Micropost, int64, error) {
	scope := func() *gorm.DB {
		followed := r.db.Model(&model.Relationship{}).Select("followed_id").Where("follower_id = ?", userID)
		return r.db.WithContext(ctx).Model(&model.Micropost{}).
			Where("user_id IN (?) OR user_id = ?", followed, userID)
	}
	return r.list(scope, page)
}

func (r *micropostRepository) list(scope func() *gorm.DB, page Page) ([]model.Micropost, int64, error) {
	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []model.Micropost
	q := scope().Preload("User").Order("created_at DESC").Order("id DESC")
	if err := page.apply(q).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
